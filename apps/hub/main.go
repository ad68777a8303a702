package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"classhub/core"
	"classhub/core/achievement"
	"classhub/core/attendance"
	"classhub/core/class"
	"classhub/core/hub"
	"classhub/core/sparkpoint"
	"classhub/core/student"
	"classhub/core/widget"
	"classhub/services/dialog"
	"classhub/services/logger"
	"classhub/services/weather/dummy"
	"classhub/services/weather/openweather"
	"classhub/storage/database"
	"classhub/storage/kvfile"
)

func main() {
	std := log.New(os.Stdout, "HUB : ", log.LstdFlags|log.Lmicroseconds)

	// set up logging
	var logSvc core.Logger
	if core.Conf.GetBool("debug") {
		logSvc = logsvc.NewStdLogger(std)
	} else {
		logSvc = logsvc.NewRollbarLogger(std)
	}

	// set up storage
	var store core.Store
	switch engine := core.Conf.GetString("storageEngine"); engine {
	case "postgres":
		db, err := database.Open()
		errAndDie(std, err)
		defer db.Close()
		store = database.NewStore(db, logSvc)
	default:
		var err error
		store, err = kvfile.New(core.Conf.GetString("dataDir"), logSvc)
		errAndDie(std, err)
	}

	// set up services
	var weatherSvc core.WeatherService
	if core.Conf.GetString("weather.apiKey") != "" {
		weatherSvc = openweather.NewService()
	} else {
		weatherSvc = dummyweather.NewService(core.WeatherConditions{
			Description: "clear sky",
			Temperature: 21,
			FeelsLike:   21,
			Humidity:    40,
			IconID:      "01d",
		})
	}

	classSvc := class.NewService(store, logSvc)
	studentSvc := student.NewService(store, logSvc)
	achievementSvc := achievement.NewService(store, logSvc, studentSvc)
	sparkSvc := sparkpoint.NewService(store, logSvc)
	attendanceSvc := attendance.NewService(store, logSvc)

	app := hub.New(hub.Options{
		Store:    store,
		Logger:   logSvc,
		Prompter: dialogsvc.NewConsolePrompter(os.Stdin, os.Stdout),
		Surface:  &consoleSurface{out: os.Stdout},
		Factory: widget.Factory{
			Log:            logSvc,
			Weather:        weatherSvc,
			WeatherRefresh: core.Conf.GetDuration("weather.refreshInterval"),
		},
		Classes:      classSvc,
		Students:     studentSvc,
		Attendance:   attendanceSvc,
		Achievements: achievementSvc,
		Sparks:       sparkSvc,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	errAndDie(std, app.Init(ctx))

	if sp := app.CurrentSpace(); sp != nil {
		logSvc.Info("active space: " + sp.Emoji + " " + sp.Name)
	}

	// run until interrupted, then tear down cleanly
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	if err := app.Close(); err != nil {
		logSvc.Error("shutting down", err)
		os.Exit(1)
	}
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}

// consoleSurface renders widget markup to the terminal. The real front end
// swaps in a graphical surface; the core neither knows nor cares.
type consoleSurface struct {
	mutex sync.Mutex
	out   io.Writer
}

var _ widget.Surface = (*consoleSurface)(nil)

func (s *consoleSurface) Update(widgetID, markup string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	fmt.Fprintf(s.out, "[%s] %s\n", widgetID, markup)
}

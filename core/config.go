package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *viper.Viper

func init() {
	Conf = viper.New()

	// defaults
	Conf.SetTypeByDefaultValue(true)
	Conf.SetDefault("debug", true)
	Conf.SetDefault("appName", "Class Hub")
	Conf.SetDefault("dataDir", filepath.Join(Getwd(), "data"))
	Conf.SetDefault("storageEngine", "file") // file, postgres
	Conf.SetDefault("rollbarToken", "")

	Conf.SetDefault("database.engine", "postgres")
	Conf.SetDefault("database.name", "classhub")
	Conf.SetDefault("database.host", "localhost")
	Conf.SetDefault("database.port", "5432")
	Conf.SetDefault("database.user", "")
	Conf.SetDefault("database.password", "")
	Conf.SetDefault("database.disableTLS", true)

	Conf.SetDefault("weather.baseURL", "https://api.openweathermap.org/data/2.5")
	Conf.SetDefault("weather.apiKey", "")
	Conf.SetDefault("weather.refreshInterval", 30*time.Minute)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case strings.ToUpper("TEST"):
		Conf.SetDefault("testMode", true)
	}
	Conf.SetDefault("env", env)
	Conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	Conf.AutomaticEnv()
}

package attendance

import (
	"sort"
	"time"

	"github.com/pkg/errors"

	"classhub/core"
)

// StoreKey is the persistence key for the attendance log, a map of
// class id -> ISO date -> student id -> status.
const StoreKey = "classHubAttendance"

// DateLayout is the ISO day format attendance is keyed by.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
	StatusExcused Status = "excused"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

var (
	ErrInvalidDate   = errors.New("invalid attendance date")
	ErrInvalidStatus = errors.New("invalid attendance status")
)

// DaySummary holds the per-status counts of one recorded day.
type DaySummary struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Late    int    `json:"late"`
	Excused int    `json:"excused"`
}

type Service struct {
	store core.Store
	log   core.Logger
}

func NewService(store core.Store, log core.Logger) *Service {
	return &Service{store: store, log: log}
}

func (svc *Service) load() map[string]map[string]map[string]Status {
	records := make(map[string]map[string]map[string]Status)
	if _, err := svc.store.Load(StoreKey, &records); err != nil {
		svc.log.Error("loading attendance", err)
	}
	return records
}

func (svc *Service) save(records map[string]map[string]map[string]Status) error {
	return errors.Wrap(svc.store.Save(StoreKey, records), "saving attendance")
}

// Take records attendance for a class on a day. Retaking a day replaces the
// previous record for that (class, date) slot entirely.
func (svc *Service) Take(classID, date string, statuses map[string]Status) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return ErrInvalidDate
	}
	for _, status := range statuses {
		if !status.Valid() {
			return ErrInvalidStatus
		}
	}

	records := svc.load()
	if records[classID] == nil {
		records[classID] = make(map[string]map[string]Status)
	}
	day := make(map[string]Status, len(statuses))
	for studentID, status := range statuses {
		day[studentID] = status
	}
	records[classID][date] = day
	return svc.save(records)
}

// ForDate returns the recorded statuses of a class on a day, nil when the
// day was never taken.
func (svc *Service) ForDate(classID, date string) map[string]Status {
	return svc.load()[classID][date]
}

// ForClass returns every recorded day of a class.
func (svc *Service) ForClass(classID string) map[string]map[string]Status {
	return svc.load()[classID]
}

// Summary tallies each recorded day of a class, most recent first.
func (svc *Service) Summary(classID string) []DaySummary {
	days := svc.load()[classID]
	summaries := make([]DaySummary, 0, len(days))
	for date, statuses := range days {
		sum := DaySummary{Date: date}
		for _, status := range statuses {
			switch status {
			case StatusPresent:
				sum.Present++
			case StatusAbsent:
				sum.Absent++
			case StatusLate:
				sum.Late++
			case StatusExcused:
				sum.Excused++
			}
		}
		summaries = append(summaries, sum)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Date > summaries[j].Date })
	return summaries
}

// RemoveClass drops the whole attendance history of a class.
func (svc *Service) RemoveClass(classID string) error {
	records := svc.load()
	if _, ok := records[classID]; !ok {
		return nil
	}
	delete(records, classID)
	return svc.save(records)
}

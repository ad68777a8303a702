package dummyweather

import (
	"context"
	"sync"

	"classhub/core"
)

// Service returns canned conditions. Used in tests and when no API key is
// configured.
type Service struct {
	mutex      sync.Mutex
	Conditions core.WeatherConditions
	Err        error
	Calls      int
}

var _ core.WeatherService = (*Service)(nil)

func NewService(cond core.WeatherConditions) *Service {
	return &Service{Conditions: cond}
}

func (svc *Service) CurrentConditions(_ context.Context, location, _ string) (core.WeatherConditions, error) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	svc.Calls++
	if svc.Err != nil {
		return core.WeatherConditions{}, svc.Err
	}
	cond := svc.Conditions
	if cond.LocationName == "" {
		cond.LocationName = location
	}
	return cond, nil
}

// CallCount reports how many fetches were made.
func (svc *Service) CallCount() int {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()
	return svc.Calls
}

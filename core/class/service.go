package class

import (
	"time"

	"github.com/pkg/errors"

	"classhub/core"
)

var (
	ErrNotFound = errors.New("class not found")

	nowFunc = time.Now
)

type Service struct {
	store core.Store
	log   core.Logger
}

func NewService(store core.Store, log core.Logger) *Service {
	return &Service{store: store, log: log}
}

func (svc *Service) load() []Class {
	var classes []Class
	if _, err := svc.store.Load(StoreKey, &classes); err != nil {
		svc.log.Error("loading classes", err)
	}
	return classes
}

func (svc *Service) save(classes []Class) error {
	return errors.Wrap(svc.store.Save(StoreKey, classes), "saving classes")
}

func (svc *Service) GetAll() []Class {
	return svc.load()
}

func (svc *Service) Get(id string) (Class, error) {
	for _, cls := range svc.load() {
		if cls.ID == id {
			return cls, nil
		}
	}
	return Class{}, ErrNotFound
}

func (svc *Service) Exists(id string) bool {
	_, err := svc.Get(id)
	return err == nil
}

func (svc *Service) Create(nc NewClass) (Class, error) {
	if err := nc.Validate(); err != nil {
		return Class{}, err
	}

	now := nowFunc().UTC()
	cls := Class{
		ID:           core.NewToken(),
		Name:         nc.Name,
		GradeLevel:   nc.GradeLevel,
		AcademicYear: nc.AcademicYear,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	classes := append(svc.load(), cls)
	if err := svc.save(classes); err != nil {
		return Class{}, err
	}
	return cls, nil
}

func (svc *Service) Update(id string, uc UpdateClass) (Class, error) {
	if err := uc.Validate(); err != nil {
		return Class{}, err
	}

	classes := svc.load()
	for i, cls := range classes {
		if cls.ID != id {
			continue
		}
		if uc.Name != nil {
			cls.Name = *uc.Name
		}
		if uc.GradeLevel != nil {
			cls.GradeLevel = *uc.GradeLevel
		}
		if uc.AcademicYear != nil {
			cls.AcademicYear = *uc.AcademicYear
		}
		cls.UpdatedAt = nowFunc().UTC()
		classes[i] = cls
		if err := svc.save(classes); err != nil {
			return Class{}, err
		}
		return cls, nil
	}
	return Class{}, ErrNotFound
}

// Remove deletes the class record only. Cascading deletes of dependent
// records are orchestrated by the hub.
func (svc *Service) Remove(id string) error {
	classes := svc.load()
	for i, cls := range classes {
		if cls.ID == id {
			return svc.save(append(classes[:i], classes[i+1:]...))
		}
	}
	return ErrNotFound
}

package achievement

import (
	"time"

	"github.com/pkg/errors"

	"classhub/core"
)

var (
	ErrNotFound       = errors.New("achievement not found")
	ErrUnknownStudent = errors.New("unknown student")
	ErrInvalidType    = errors.New("invalid achievement")

	nowFunc = time.Now
)

// StudentDirectory answers whether a student id is enrolled anywhere.
type StudentDirectory interface {
	HasStudent(studentID string) bool
}

type Service struct {
	store    core.Store
	log      core.Logger
	students StudentDirectory
}

func NewService(store core.Store, log core.Logger, students StudentDirectory) *Service {
	return &Service{store: store, log: log, students: students}
}

func (svc *Service) load() map[string][]Achievement {
	ledger := make(map[string][]Achievement)
	if _, err := svc.store.Load(StoreKey, &ledger); err != nil {
		svc.log.Error("loading achievements", err)
	}
	return ledger
}

func (svc *Service) save(ledger map[string][]Achievement) error {
	return errors.Wrap(svc.store.Save(StoreKey, ledger), "saving achievements")
}

// Award grants an achievement and computes its medal tier from the
// student's history of the same type.
func (svc *Service) Award(studentID string, na NewAchievement) (Achievement, error) {
	if err := na.Validate(); err != nil {
		return Achievement{}, err
	}
	if svc.students != nil && !svc.students.HasStudent(studentID) {
		return Achievement{}, ErrUnknownStudent
	}

	ledger := svc.load()
	earned := ledger[studentID]

	ach := Achievement{
		ID:          core.NewToken(),
		Type:        na.Type,
		Title:       na.Type.Title(),
		Description: na.Description,
		DateAwarded: nowFunc().UTC(),
		StudentID:   studentID,
	}

	if na.Type == TypeCustom {
		ach.Title = na.Title
		ach.MedalLevel = na.MedalLevel
		if ach.MedalLevel == "" {
			ach.MedalLevel = MedalBronze
		}
	} else {
		sameType := ofType(earned, na.Type)
		top := Medals[len(Medals)-1]
		ach.MedalLevel = NextMedal(len(sameType), HighestMedal(sameType) == top)
	}

	ledger[studentID] = append(earned, ach)
	if err := svc.save(ledger); err != nil {
		return Achievement{}, err
	}
	return ach, nil
}

func (svc *Service) ForStudent(studentID string) []Achievement {
	return svc.load()[studentID]
}

func (svc *Service) Remove(studentID, achievementID string) error {
	ledger := svc.load()
	for i, ach := range ledger[studentID] {
		if ach.ID == achievementID {
			ledger[studentID] = append(ledger[studentID][:i], ledger[studentID][i+1:]...)
			return svc.save(ledger)
		}
	}
	return ErrNotFound
}

// Progress reports the medal standing of every non-custom type for a
// student.
func (svc *Service) Progress(studentID string) []TypeProgress {
	earned := svc.load()[studentID]
	progress := make([]TypeProgress, 0, len(Types)-1)
	top := Medals[len(Medals)-1]
	for _, typ := range Types {
		if typ == TypeCustom {
			continue
		}
		sameType := ofType(earned, typ)
		prog := TypeProgress{
			Type:    typ,
			Title:   typ.Title(),
			Count:   len(sameType),
			Current: HighestMedal(sameType),
			Next:    NextMedal(len(sameType), HighestMedal(sameType) == top),
		}
		progress = append(progress, prog)
	}
	return progress
}

// EnsureStudent initializes an empty ledger entry for a student if none
// exists yet.
func (svc *Service) EnsureStudent(studentID string) error {
	ledger := svc.load()
	if _, ok := ledger[studentID]; ok {
		return nil
	}
	ledger[studentID] = []Achievement{}
	return svc.save(ledger)
}

func ofType(achievements []Achievement, typ Type) []Achievement {
	var out []Achievement
	for _, ach := range achievements {
		if ach.Type == typ {
			out = append(out, ach)
		}
	}
	return out
}

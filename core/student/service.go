package student

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"classhub/core"
)

var (
	ErrNotFound = errors.New("student not found")

	nowFunc = time.Now
)

// Ledger is any per-student record keeper that must hold an entry for every
// enrolled student (achievements, spark points).
type Ledger interface {
	EnsureStudent(studentID string) error
}

type Service struct {
	store core.Store
	log   core.Logger
}

func NewService(store core.Store, log core.Logger) *Service {
	return &Service{store: store, log: log}
}

func (svc *Service) load() map[string][]Student {
	students := make(map[string][]Student)
	if _, err := svc.store.Load(StoreKey, &students); err != nil {
		svc.log.Error("loading students", err)
	}
	return students
}

func (svc *Service) save(students map[string][]Student) error {
	return errors.Wrap(svc.store.Save(StoreKey, students), "saving students")
}

func (svc *Service) ByClass(classID string) []Student {
	return svc.load()[classID]
}

func (svc *Service) Get(classID, studentID string) (Student, error) {
	for _, std := range svc.load()[classID] {
		if std.ID == studentID {
			return std, nil
		}
	}
	return Student{}, ErrNotFound
}

func (svc *Service) Exists(classID, studentID string) bool {
	_, err := svc.Get(classID, studentID)
	return err == nil
}

// HasStudent reports whether the id is enrolled in any class.
func (svc *Service) HasStudent(studentID string) bool {
	_, _, err := svc.Find(studentID)
	return err == nil
}

// Find looks a student up by id across all classes.
func (svc *Service) Find(studentID string) (Student, string, error) {
	for classID, students := range svc.load() {
		for _, std := range students {
			if std.ID == studentID {
				return std, classID, nil
			}
		}
	}
	return Student{}, "", ErrNotFound
}

func (svc *Service) Create(classID string, ns NewStudent, ledgers ...Ledger) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}

	std := Student{
		ID:              core.NewToken(),
		FirstName:       ns.FirstName,
		LastName:        ns.LastName,
		StudentID:       ns.StudentID,
		Grade:           ns.Grade,
		DateOfBirth:     ns.DateOfBirth,
		Gender:          ns.Gender,
		Email:           ns.Email,
		Phone:           ns.Phone,
		Address:         ns.Address,
		GuardianName:    ns.GuardianName,
		GuardianContact: ns.GuardianContact,
		Notes:           ns.Notes,
		Avatar:          AvatarURL(ns.FirstName, ns.LastName),
		SpaceID:         ns.SpaceID,
		CreatedAt:       nowFunc().UTC(),
	}

	students := svc.load()
	students[classID] = append(students[classID], std)
	if err := svc.save(students); err != nil {
		return Student{}, err
	}
	svc.ensureLedgers(std.ID, ledgers)
	return std, nil
}

func (svc *Service) Update(classID, studentID string, us UpdateStudent) (Student, error) {
	if err := us.Validate(); err != nil {
		return Student{}, err
	}

	students := svc.load()
	for i, std := range students[classID] {
		if std.ID != studentID {
			continue
		}
		applyUpdate(&std, us)
		students[classID][i] = std
		if err := svc.save(students); err != nil {
			return Student{}, err
		}
		return std, nil
	}
	return Student{}, ErrNotFound
}

func applyUpdate(std *Student, us UpdateStudent) {
	if us.FirstName != nil {
		std.FirstName = *us.FirstName
	}
	if us.LastName != nil {
		std.LastName = *us.LastName
	}
	if us.StudentID != nil {
		std.StudentID = *us.StudentID
	}
	if us.Grade != nil {
		std.Grade = *us.Grade
	}
	if us.DateOfBirth != nil {
		std.DateOfBirth = *us.DateOfBirth
	}
	if us.Gender != nil {
		std.Gender = *us.Gender
	}
	if us.Email != nil {
		std.Email = *us.Email
	}
	if us.Phone != nil {
		std.Phone = *us.Phone
	}
	if us.Address != nil {
		std.Address = *us.Address
	}
	if us.GuardianName != nil {
		std.GuardianName = *us.GuardianName
	}
	if us.GuardianContact != nil {
		std.GuardianContact = *us.GuardianContact
	}
	if us.Notes != nil {
		std.Notes = *us.Notes
	}
	if us.SpaceID != nil {
		std.SpaceID = *us.SpaceID
	}
	if us.RefreshAvatar {
		std.Avatar = AvatarURL(std.FirstName, std.LastName)
	}
}

func (svc *Service) Remove(classID, studentID string) error {
	students := svc.load()
	for i, std := range students[classID] {
		if std.ID == studentID {
			students[classID] = append(students[classID][:i], students[classID][i+1:]...)
			return svc.save(students)
		}
	}
	return ErrNotFound
}

// RemoveClass drops the whole roster of a class.
func (svc *Service) RemoveClass(classID string) error {
	students := svc.load()
	if _, ok := students[classID]; !ok {
		return nil
	}
	delete(students, classID)
	return svc.save(students)
}

// Import enrolls rows in bulk. Rows without a first name are counted as
// skipped and do not abort the run. Imported ids carry a random suffix so
// same-tick rows never collide.
func (svc *Service) Import(classID, spaceID string, rows []ImportRow, ledgers ...Ledger) (ImportResult, error) {
	var res ImportResult
	students := svc.load()
	imported := make([]Student, 0, len(rows))

	for _, row := range rows {
		firstName := core.CleanString(row.FirstName)
		if firstName == "" {
			res.Skipped++
			continue
		}
		std := Student{
			ID:              fmt.Sprintf("%d-%s", nowFunc().UnixMilli(), uuid.NewString()[:8]),
			FirstName:       firstName,
			LastName:        core.CleanString(row.LastName),
			StudentID:       row.StudentID,
			Grade:           row.Grade,
			DateOfBirth:     row.DateOfBirth,
			Gender:          row.Gender,
			Email:           core.CleanString(row.Email, true /* lower */),
			Phone:           row.Phone,
			Address:         row.Address,
			GuardianName:    row.GuardianName,
			GuardianContact: row.GuardianContact,
			Notes:           row.Notes,
			SpaceID:         spaceID,
			CreatedAt:       nowFunc().UTC(),
		}
		std.Avatar = AvatarURL(std.FirstName, std.LastName)
		imported = append(imported, std)
	}

	if len(imported) > 0 {
		students[classID] = append(students[classID], imported...)
		if err := svc.save(students); err != nil {
			return res, err
		}
		for _, std := range imported {
			svc.ensureLedgers(std.ID, ledgers)
		}
	}
	res.Imported = len(imported)
	return res, nil
}

// ValidateData repairs the loaded collection: students without an id get
// one, and every student gets an entry in each ledger. Run at startup and
// after bulk imports.
func (svc *Service) ValidateData(ledgers ...Ledger) error {
	students := svc.load()
	var dirty bool
	for classID, roster := range students {
		for i, std := range roster {
			if std.ID == "" {
				std.ID = core.NewToken()
				students[classID][i] = std
				dirty = true
			}
			svc.ensureLedgers(std.ID, ledgers)
		}
	}
	if dirty {
		return svc.save(students)
	}
	return nil
}

// AssignMissingSpace points students with no learning space at the given
// default.
func (svc *Service) AssignMissingSpace(spaceID string) error {
	students := svc.load()
	var dirty bool
	for classID, roster := range students {
		for i, std := range roster {
			if std.SpaceID == "" {
				students[classID][i].SpaceID = spaceID
				dirty = true
			}
		}
	}
	if dirty {
		return svc.save(students)
	}
	return nil
}

func (svc *Service) ensureLedgers(studentID string, ledgers []Ledger) {
	for _, ledger := range ledgers {
		if err := ledger.EnsureStudent(studentID); err != nil {
			svc.log.Error("initializing student ledger", studentID, err)
		}
	}
}

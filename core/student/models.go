package student

import (
	"net/url"
	"strings"
	"time"

	"classhub/core"
)

// StoreKey is the persistence key for the student collection, a map of
// class id to the students enrolled in that class.
const StoreKey = "classHubStudents"

type Student struct {
	ID              string    `json:"id"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName,omitempty"`
	StudentID       string    `json:"studentId,omitempty"`
	Grade           string    `json:"grade,omitempty"`
	DateOfBirth     string    `json:"dateOfBirth,omitempty"`
	Gender          string    `json:"gender,omitempty"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	GuardianName    string    `json:"guardianName,omitempty"`
	GuardianContact string    `json:"guardianContact,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	SpaceID         string    `json:"spaceId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"` // UTC
}

func (s Student) FullName() string {
	return core.CleanString(s.FirstName + " " + s.LastName)
}

// AvatarURL generates a deterministic avatar URI seeded from the student's
// name.
func AvatarURL(firstName, lastName string) string {
	seed := strings.ToLower(core.CleanString(firstName) + "_" + core.CleanString(lastName))
	return "https://api.dicebear.com/6.x/bottts/svg?seed=" + url.QueryEscape(seed) + "&backgroundColor=transparent"
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName"`
	StudentID       string `json:"studentId"`
	Grade           string `json:"grade"`
	DateOfBirth     string `json:"dateOfBirth"`
	Gender          string `json:"gender"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	GuardianName    string `json:"guardianName"`
	GuardianContact string `json:"guardianContact"`
	Notes           string `json:"notes"`
	SpaceID         string `json:"spaceId"`
}

func (ns *NewStudent) Validate() error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return core.TranslateError(core.Validate.Struct(ns))
}

// UpdateStudent defines what information may be provided to modify an
// existing Student. Nil fields are left untouched.
type UpdateStudent struct {
	FirstName       *string `json:"firstName" validate:"omitempty,min=1"`
	LastName        *string `json:"lastName"`
	StudentID       *string `json:"studentId"`
	Grade           *string `json:"grade"`
	DateOfBirth     *string `json:"dateOfBirth"`
	Gender          *string `json:"gender"`
	Email           *string `json:"email" validate:"omitempty,email"`
	Phone           *string `json:"phone"`
	Address         *string `json:"address"`
	GuardianName    *string `json:"guardianName"`
	GuardianContact *string `json:"guardianContact"`
	Notes           *string `json:"notes"`
	SpaceID         *string `json:"spaceId"`

	// RefreshAvatar regenerates the avatar from the (possibly new) name.
	RefreshAvatar bool `json:"-"`
}

func (us *UpdateStudent) Validate() error {
	if us.FirstName != nil {
		name := core.CleanString(*us.FirstName)
		us.FirstName = &name
	}
	if us.LastName != nil {
		name := core.CleanString(*us.LastName)
		us.LastName = &name
	}
	if us.Email != nil {
		email := core.CleanString(*us.Email, true /* lower */)
		us.Email = &email
	}
	return core.TranslateError(core.Validate.Struct(us))
}

// ImportRow is one normalized row of a bulk roster import, as produced by
// the roster readers.
type ImportRow struct {
	FirstName       string
	LastName        string
	StudentID       string
	Grade           string
	DateOfBirth     string
	Gender          string
	Email           string
	Phone           string
	Address         string
	GuardianName    string
	GuardianContact string
	Notes           string
}

// ImportResult summarizes a bulk import run.
type ImportResult struct {
	Imported int
	Skipped  int // rows rejected for a missing first name
}

package class

import (
	"time"

	"classhub/core"
)

// StoreKey is the persistence key for the class collection.
const StoreKey = "classHubClasses"

type Class struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	GradeLevel   int       `json:"gradeLevel,omitempty"` // 1-12; 0 = unset
	AcademicYear string    `json:"academicYear,omitempty"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name         string `json:"name" validate:"required"`
	GradeLevel   int    `json:"gradeLevel" validate:"omitempty,min=1,max=12"`
	AcademicYear string `json:"academicYear"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.AcademicYear = core.CleanString(nc.AcademicYear)
	return core.TranslateError(core.Validate.Struct(nc))
}

// UpdateClass defines what information may be provided to modify an existing
// Class. Nil fields are left untouched.
type UpdateClass struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	GradeLevel   *int    `json:"gradeLevel" validate:"omitempty,min=1,max=12"`
	AcademicYear *string `json:"academicYear"`
}

func (uc *UpdateClass) Validate() error {
	if uc.Name != nil {
		name := core.CleanString(*uc.Name)
		uc.Name = &name
	}
	if uc.AcademicYear != nil {
		year := core.CleanString(*uc.AcademicYear)
		uc.AcademicYear = &year
	}
	return core.TranslateError(core.Validate.Struct(uc))
}

package achievement

import (
	"time"

	"classhub/core"
)

// StoreKey is the persistence key for the achievement ledger, a map of
// student id to earned achievements.
const StoreKey = "classHubAchievements"

type Type string

const (
	TypeWeeklyStar  Type = "weekly_star"
	TypeMonthlyStar Type = "monthly_star"
	TypeAcademic    Type = "academic"
	TypeAttendance  Type = "attendance"
	TypeCharacter   Type = "character"
	TypeCustom      Type = "custom"
)

var (
	Types = []Type{TypeWeeklyStar, TypeMonthlyStar, TypeAcademic, TypeAttendance, TypeCharacter, TypeCustom}

	typeTitles = map[Type]string{
		TypeWeeklyStar:  "Star of the Week",
		TypeMonthlyStar: "Student of the Month",
		TypeAcademic:    "Academic Excellence",
		TypeAttendance:  "Perfect Attendance",
		TypeCharacter:   "Character Award",
		TypeCustom:      "Custom Achievement",
	}
)

func (t Type) Valid() bool {
	_, ok := typeTitles[t]
	return ok
}

func (t Type) Title() string {
	return typeTitles[t]
}

type Medal string

// Medal tiers in progression order; earning achievement n of a type awards
// the n'th tier.
const (
	MedalBronze   Medal = "bronze"
	MedalSilver   Medal = "silver"
	MedalGold     Medal = "gold"
	MedalPlatinum Medal = "platinum"
	MedalRuby     Medal = "ruby"
	MedalSapphire Medal = "sapphire"
	MedalEmerald  Medal = "emerald"
	MedalDiamond  Medal = "diamond"
	MedalAmethyst Medal = "amethyst"
	MedalOpal     Medal = "opal"
)

var Medals = []Medal{
	MedalBronze, MedalSilver, MedalGold, MedalPlatinum, MedalRuby,
	MedalSapphire, MedalEmerald, MedalDiamond, MedalAmethyst, MedalOpal,
}

func (m Medal) Valid() bool {
	for _, medal := range Medals {
		if m == medal {
			return true
		}
	}
	return false
}

type Achievement struct {
	ID          string    `json:"id"`
	Type        Type      `json:"type"`
	Title       string    `json:"title"`
	MedalLevel  Medal     `json:"medalLevel"`
	Description string    `json:"description,omitempty"`
	DateAwarded time.Time `json:"dateAwarded"` // UTC
	StudentID   string    `json:"studentId"`
}

// NewAchievement contains information needed to award an achievement.
// Custom awards carry their own title and medal level; typed awards derive
// both.
type NewAchievement struct {
	Type        Type   `json:"type" validate:"required"`
	Title       string `json:"title"`
	MedalLevel  Medal  `json:"medalLevel"`
	Description string `json:"description"`
}

func (na *NewAchievement) Validate() error {
	na.Title = core.CleanString(na.Title)
	if err := core.TranslateError(core.Validate.Struct(na)); err != nil {
		return err
	}
	if !na.Type.Valid() {
		return core.NewValidationError(ErrInvalidType, core.FieldError{Field: "type", Error: "unknown achievement type"})
	}
	if na.Type == TypeCustom {
		if na.Title == "" {
			return core.NewValidationError(ErrInvalidType, core.FieldError{Field: "title", Error: "this field is required"})
		}
		if na.MedalLevel != "" && !na.MedalLevel.Valid() {
			return core.NewValidationError(ErrInvalidType, core.FieldError{Field: "medalLevel", Error: "unknown medal level"})
		}
	}
	return nil
}

// TypeProgress reports where a student stands in one type's medal
// progression.
type TypeProgress struct {
	Type    Type   `json:"type"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
	Current Medal  `json:"current,omitempty"` // empty when nothing earned yet
	Next    Medal  `json:"next"`
}

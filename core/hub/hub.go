package hub

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"classhub/core"
	"classhub/core/attendance"
	"classhub/core/class"
	"classhub/core/space"
	"classhub/core/sparkpoint"
	"classhub/core/student"
	"classhub/core/widget"
)

// Persistence keys owned by the hub itself.
const (
	SettingsKey    = "classHubSettings"
	AssignmentsKey = "classHubSpaceClasses"
)

var (
	ErrSpaceNotFound = errors.New("space not found")
	ErrNoActiveSpace = errors.New("no active space")
	ErrUnknownClass  = errors.New("unknown class")
)

// Settings is the school-level preferences record.
type Settings struct {
	SchoolName      string `json:"schoolName"`
	ClassName       string `json:"className"`
	SchoolLogo      string `json:"schoolLogo"`
	LastActiveSpace string `json:"lastActiveSpace,omitempty"`
}

func defaultSettings() Settings {
	return Settings{SchoolName: "Class Hub"}
}

type Options struct {
	Store    core.Store
	Logger   core.Logger
	Prompter core.Prompter
	Surface  widget.Surface
	Factory  widget.Factory

	Classes      *class.Service
	Students     *student.Service
	Attendance   *attendance.Service
	Achievements AchievementLedger
	Sparks       *sparkpoint.Service
}

// AchievementLedger is the slice of the achievement service the hub drives
// during enrollment and validation.
type AchievementLedger interface {
	EnsureStudent(studentID string) error
}

// Hub is the application root: it owns the learning spaces, the settings
// record and the space-to-class assignments, and orchestrates everything
// that spans more than one registry.
type Hub struct {
	mu sync.Mutex

	store    core.Store
	log      core.Logger
	prompter core.Prompter
	surface  widget.Surface
	factory  widget.Factory

	classes      *class.Service
	students     *student.Service
	attendance   *attendance.Service
	achievements AchievementLedger
	sparks       *sparkpoint.Service

	spaces      []*space.Space
	current     string // active space id, "" when none
	settings    Settings
	assignments map[string]string // space id -> class id
}

func New(opts Options) *Hub {
	return &Hub{
		store:        opts.Store,
		log:          opts.Logger,
		prompter:     opts.Prompter,
		surface:      opts.Surface,
		factory:      opts.Factory,
		classes:      opts.Classes,
		students:     opts.Students,
		attendance:   opts.Attendance,
		achievements: opts.Achievements,
		sparks:       opts.Sparks,
		settings:     defaultSettings(),
		assignments:  make(map[string]string),
	}
}

// Init loads every collection, repairs student ledgers, and either walks
// the user through first-time class creation or activates the last active
// space.
func (h *Hub) Init(ctx context.Context) error {
	h.mu.Lock()

	// a mistyped settings document decodes partially before the store
	// reports it absent; start from defaults unless the load fully succeeds
	if found, err := h.store.Load(SettingsKey, &h.settings); err != nil || !found {
		if err != nil {
			h.log.Error("loading settings", err)
		}
		h.settings = defaultSettings()
	}
	if found, err := h.store.Load(AssignmentsKey, &h.assignments); err != nil || !found {
		if err != nil {
			h.log.Error("loading space assignments", err)
		}
		h.assignments = make(map[string]string)
	}

	var records []space.Record
	if _, err := h.store.Load(space.StoreKey, &records); err != nil {
		h.log.Error("loading spaces", err)
	}
	h.spaces = h.spaces[:0]
	for _, rec := range records {
		sp := space.FromRecord(rec, h.factory, h.log)
		sp.ClassID = h.assignments[sp.ID]
		h.spaces = append(h.spaces, sp)
	}
	h.mu.Unlock()

	ledgers := h.ledgers()
	if err := h.students.ValidateData(ledgers...); err != nil {
		h.log.Error("validating student data", err)
	}

	if len(h.classes.GetAll()) == 0 {
		return h.firstRun(ctx)
	}

	h.mu.Lock()
	target := h.settings.LastActiveSpace
	if h.findSpace(target) == nil && len(h.spaces) > 0 {
		target = h.spaces[0].ID
	}
	h.mu.Unlock()
	if target != "" {
		return h.ActivateSpace(target)
	}
	return nil
}

func (h *Hub) ledgers() []student.Ledger {
	var ledgers []student.Ledger
	if h.achievements != nil {
		ledgers = append(ledgers, h.achievements)
	}
	if h.sparks != nil {
		ledgers = append(ledgers, h.sparks)
	}
	return ledgers
}

// firstRun asks the user to create their first class. Declining is fine;
// the dashboard just starts empty.
func (h *Hub) firstRun(ctx context.Context) error {
	answer, err := h.prompter.Ask(ctx, core.Prompt{
		Title: "Welcome to Class Hub!",
		Text:  "Create your first class to get started.",
		Fields: []core.PromptField{
			{Name: "name", Label: "Class name", Required: true},
		},
	})
	if err != nil {
		return errors.Wrap(err, "first-run prompt")
	}
	if !answer.Confirmed {
		return nil
	}
	if _, err := h.classes.Create(class.NewClass{Name: answer.Values["name"]}); err != nil {
		return err
	}
	return nil
}

// Close detaches the active space and persists everything the hub owns.
func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sp := h.findSpace(h.current); sp != nil {
		sp.Detach()
	}
	return h.persistLocked()
}

// Settings returns a copy of the school settings record.
func (h *Hub) Settings() Settings {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.settings
}

func (h *Hub) UpdateSettings(schoolName, className, schoolLogo string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if name := core.CleanString(schoolName); name != "" {
		h.settings.SchoolName = name
	}
	h.settings.ClassName = core.CleanString(className)
	h.settings.SchoolLogo = schoolLogo
	return h.persistSettingsLocked()
}

// findSpace must be called with the hub lock held.
func (h *Hub) findSpace(id string) *space.Space {
	if id == "" {
		return nil
	}
	for _, sp := range h.spaces {
		if sp.ID == id {
			return sp
		}
	}
	return nil
}

func (h *Hub) Spaces() []*space.Space {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*space.Space, len(h.spaces))
	copy(out, h.spaces)
	return out
}

func (h *Hub) CurrentSpace() *space.Space {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.findSpace(h.current)
}

// persistLocked writes every hub-owned collection. Callers hold the lock.
func (h *Hub) persistLocked() error {
	records := make([]space.Record, 0, len(h.spaces))
	for _, sp := range h.spaces {
		records = append(records, sp.Record())
	}
	if err := h.store.Save(space.StoreKey, records); err != nil {
		return errors.Wrap(err, "saving spaces")
	}
	if err := h.store.Save(AssignmentsKey, h.assignments); err != nil {
		return errors.Wrap(err, "saving space assignments")
	}
	return h.persistSettingsLocked()
}

func (h *Hub) persistSettingsLocked() error {
	return errors.Wrap(h.store.Save(SettingsKey, h.settings), "saving settings")
}

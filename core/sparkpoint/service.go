package sparkpoint

import (
	"time"

	"github.com/pkg/errors"

	"classhub/core"
)

// StoreKey is the persistence key for the spark point ledger, a map of
// student id to the append-only list of awards.
const StoreKey = "classHubSparkPoints"

var (
	ErrZeroPoints = errors.New("spark award must be non-zero")

	nowFunc = time.Now
)

// Record is one spark point award. Points may be negative.
type Record struct {
	ID        string    `json:"id"`
	Points    int       `json:"points"`
	Category  string    `json:"category"`
	SpaceName string    `json:"spaceName,omitempty"` // snapshot of the space at award time
	Timestamp time.Time `json:"timestamp"`           // UTC
}

var categories = [...]string{
	1: "Participation",
	2: "Good Answer",
	3: "Great Effort",
	4: "Outstanding Work",
	5: "Exceptional Achievement",
}

// CategoryFor maps a point magnitude to its quick-award category.
func CategoryFor(points int) string {
	if points < 0 {
		points = -points
	}
	if points < 1 {
		points = 1
	}
	if points >= len(categories) {
		points = len(categories) - 1
	}
	return categories[points]
}

type Service struct {
	store core.Store
	log   core.Logger
}

func NewService(store core.Store, log core.Logger) *Service {
	return &Service{store: store, log: log}
}

func (svc *Service) load() map[string][]Record {
	ledger := make(map[string][]Record)
	if _, err := svc.store.Load(StoreKey, &ledger); err != nil {
		svc.log.Error("loading spark points", err)
	}
	return ledger
}

func (svc *Service) save(ledger map[string][]Record) error {
	return errors.Wrap(svc.store.Save(StoreKey, ledger), "saving spark points")
}

func (svc *Service) Award(studentID string, points int, category, spaceName string) (Record, error) {
	if points == 0 {
		return Record{}, ErrZeroPoints
	}
	rec := Record{
		ID:        core.NewToken(),
		Points:    points,
		Category:  category,
		SpaceName: spaceName,
		Timestamp: nowFunc().UTC(),
	}
	ledger := svc.load()
	ledger[studentID] = append(ledger[studentID], rec)
	if err := svc.save(ledger); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// QuickAward derives the category from the point magnitude.
func (svc *Service) QuickAward(studentID string, points int, spaceName string) (Record, error) {
	return svc.Award(studentID, points, CategoryFor(points), spaceName)
}

func (svc *Service) ForStudent(studentID string) []Record {
	return svc.load()[studentID]
}

// Total sums a student's awards, negatives included.
func (svc *Service) Total(studentID string) int {
	var total int
	for _, rec := range svc.load()[studentID] {
		total += rec.Points
	}
	return total
}

// EnsureStudent initializes an empty ledger entry for a student if none
// exists yet.
func (svc *Service) EnsureStudent(studentID string) error {
	ledger := svc.load()
	if _, ok := ledger[studentID]; ok {
		return nil
	}
	ledger[studentID] = []Record{}
	return svc.save(ledger)
}

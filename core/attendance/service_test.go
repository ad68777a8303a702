package attendance

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logsvc "classhub/services/logger"
	"classhub/storage/inmem"
)

func newTestService() *Service {
	return NewService(inmem.Open(), logsvc.NewStdLogger(log.New(io.Discard, "", 0)))
}

func TestStatus_Valid(t *testing.T) {
	for _, status := range []Status{StatusPresent, StatusAbsent, StatusLate, StatusExcused} {
		if !status.Valid() {
			t.Errorf("%s should be valid", status)
		}
	}
	if Status("tardy").Valid() {
		t.Error("tardy should be invalid")
	}
}

func TestService_Take(t *testing.T) {
	svc := newTestService()

	require.NoError(t, svc.Take("cls1", "2026-08-31", map[string]Status{
		"s1": StatusPresent,
		"s2": StatusAbsent,
	}))
	got := svc.ForDate("cls1", "2026-08-31")
	assert.Equal(t, StatusPresent, got["s1"])
	assert.Equal(t, StatusAbsent, got["s2"])
}

func TestService_Take_retakeOverwrites(t *testing.T) {
	svc := newTestService()

	require.NoError(t, svc.Take("cls1", "2026-08-31", map[string]Status{
		"s1": StatusAbsent,
		"s2": StatusAbsent,
	}))
	// the retake has no entry for s2; the whole slot is replaced
	require.NoError(t, svc.Take("cls1", "2026-08-31", map[string]Status{
		"s1": StatusPresent,
	}))

	got := svc.ForDate("cls1", "2026-08-31")
	assert.Equal(t, map[string]Status{"s1": StatusPresent}, got)
}

func TestService_Take_invalid(t *testing.T) {
	svc := newTestService()

	err := svc.Take("cls1", "31/08/2026", map[string]Status{"s1": StatusPresent})
	assert.Equal(t, ErrInvalidDate, err)

	err = svc.Take("cls1", "2026-08-31", map[string]Status{"s1": "tardy"})
	assert.Equal(t, ErrInvalidStatus, err)

	assert.Nil(t, svc.ForDate("cls1", "2026-08-31"), "rejected takes leave nothing behind")
}

func TestService_Summary(t *testing.T) {
	svc := newTestService()

	require.NoError(t, svc.Take("cls1", "2026-08-30", map[string]Status{
		"s1": StatusPresent, "s2": StatusPresent, "s3": StatusLate,
	}))
	require.NoError(t, svc.Take("cls1", "2026-08-31", map[string]Status{
		"s1": StatusPresent, "s2": StatusExcused, "s3": StatusAbsent,
	}))

	summaries := svc.Summary("cls1")
	require.Len(t, summaries, 2)
	assert.Equal(t, DaySummary{Date: "2026-08-31", Present: 1, Absent: 1, Excused: 1}, summaries[0])
	assert.Equal(t, DaySummary{Date: "2026-08-30", Present: 2, Late: 1}, summaries[1])
}

func TestService_RemoveClass(t *testing.T) {
	svc := newTestService()
	require.NoError(t, svc.Take("cls1", "2026-08-31", map[string]Status{"s1": StatusPresent}))
	require.NoError(t, svc.Take("cls2", "2026-08-31", map[string]Status{"s9": StatusPresent}))

	require.NoError(t, svc.RemoveClass("cls1"))
	assert.Nil(t, svc.ForClass("cls1"))
	assert.NotNil(t, svc.ForDate("cls2", "2026-08-31"))
}

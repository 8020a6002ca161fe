package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/office-task-api/internal/database"
	"github.com/yukikurage/office-task-api/internal/deadline"
	"github.com/yukikurage/office-task-api/internal/repository"
)

// wednesday is a fixed clock reading used across the service tests.
var wednesday = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return wednesday }

func newRepos(t *testing.T) repository.Set {
	t.Helper()
	store, err := database.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return repository.NewFileSet(store)
}

func newCalendar(t *testing.T) *deadline.Calendar {
	t.Helper()
	cal, err := deadline.NewCalendar(deadline.DefaultHolidays)
	require.NoError(t, err)
	return cal
}

// sequence returns an IDSource yielding ids in order, repeating the last one.
func sequence(ids ...int64) IDSource {
	i := 0
	return func() int64 {
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	}
}

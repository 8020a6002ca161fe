package services

import (
	"errors"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/yukikurage/office-task-api/internal/constants"
	"github.com/yukikurage/office-task-api/internal/repository"
)

var ErrIDSpaceExhausted = errors.New("could not allocate a unique record id")

// IDSource draws candidate record IDs.
type IDSource func() int64

// RandomRecordID returns an ID in [MinRecordID, MaxRecordID).
func RandomRecordID() int64 {
	return constants.MinRecordID + rand.Int64N(constants.MaxRecordID-constants.MinRecordID)
}

// createWithUniqueID calls create with fresh IDs until one is not taken.
func createWithUniqueID(next IDSource, create func(id int64) error) (int64, error) {
	for attempt := 0; attempt < constants.MaxIDAttempts; attempt++ {
		id := next()
		err := create(id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, repository.ErrDuplicateID) {
			return 0, err
		}
	}
	return 0, ErrIDSpaceExhausted
}

// userIDClock hands out millisecond timestamps as user IDs, strictly
// increasing within the process.
type userIDClock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func (c *userIDClock) next() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ms := c.now().UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return strconv.FormatInt(ms, 10)
}

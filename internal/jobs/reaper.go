package jobs

import (
	"time"

	"github.com/sirupsen/logrus"
)

type AttemptExpirer interface {
	ExpireAttempts(ttl time.Duration) int
}

// AttemptReaper closes publish attempts abandoned for longer than the ttl.
type AttemptReaper struct {
	attempts AttemptExpirer
	ttl      time.Duration
	cron     string
}

func NewAttemptReaper(schedule string, ttl time.Duration, attempts AttemptExpirer) *AttemptReaper {
	return &AttemptReaper{
		attempts: attempts,
		ttl:      ttl,
		cron:     schedule,
	}
}

func (r *AttemptReaper) Name() string {
	return "attempt_reaper"
}

func (r *AttemptReaper) Schedule() string {
	return r.cron
}

func (r *AttemptReaper) Run() {
	if n := r.attempts.ExpireAttempts(r.ttl); n > 0 {
		logrus.Infof("expired %d idle publish attempts", n)
	}
}

package util

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Timer measures a request and the stages inside it.
type Timer struct {
	start  time.Time
	last   time.Time
	stages logrus.Fields
}

// StartTimer creates a new timer starting at current time.
func StartTimer() *Timer {
	now := time.Now()
	return &Timer{start: now, last: now, stages: logrus.Fields{}}
}

// ElapsedMs returns the elapsed milliseconds since start.
func (t *Timer) ElapsedMs() int64 {
	if t == nil || t.start.IsZero() {
		return 0
	}
	return time.Since(t.start).Milliseconds()
}

// Lap records the milliseconds spent since the previous lap under "<stage>_ms".
func (t *Timer) Lap(stage string) {
	if t == nil || t.stages == nil {
		return
	}
	now := time.Now()
	t.stages[stage+"_ms"] = now.Sub(t.last).Milliseconds()
	t.last = now
}

// Fields returns the recorded laps plus the total, ready for logrus.WithFields.
func (t *Timer) Fields() logrus.Fields {
	out := logrus.Fields{"total_ms": t.ElapsedMs()}
	if t == nil {
		return out
	}
	for k, v := range t.stages {
		out[k] = v
	}
	return out
}

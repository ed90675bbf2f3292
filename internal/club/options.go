package club

import (
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/oprema/internal/schedule"
)

type options struct {
	newID  func() string
	window time.Duration
}

// Option configures a service.
type Option func(*options)

// WithIDGenerator overrides the UUID generator used for new records.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.newID = fn
		}
	}
}

// WithConflictWindow overrides the schedule conflict window.
func WithConflictWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		newID:  func() string { return uuid.New().String() },
		window: schedule.DefaultWindow,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package renderer

import (
	"time"

	"objraster/internal/log"
)

// Option customizes a Renderer.
type Option func(*options)

type options struct {
	logger log.Logger
	clock  func() time.Time
}

func defaultOptions() options {
	return options{
		logger: log.New("renderer"),
		clock:  time.Now,
	}
}

// WithLogger sets the logger that receives lifecycle and timing messages.
func WithLogger(l log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock replaces the wall clock used for phase timings.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

package enrollment

import "github.com/okian/skillhive/pkg/logger"

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithInitial seeds the confirmed set, as if Load had been called.
func WithInitial(ids ...string) Option {
	return func(t *Tracker) {
		for _, id := range ids {
			t.confirmed[id] = 0
		}
		t.loaded = true
	}
}

// WithLogger sets the logger used for enrollment outcomes.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

package export

import "github.com/okian/hoops/pkg/logger"

// Option applies a configuration option to the Exporter.
type Option func(*Exporter)

// WithWorkers sets how many exports run at once.
func WithWorkers(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets a custom logger for the exporter.
func WithLogger(l logger.Logger) Option {
	return func(e *Exporter) {
		if l != nil {
			e.logger = l
		}
	}
}

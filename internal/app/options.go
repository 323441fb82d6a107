package service

import "github.com/okian/hoops/pkg/logger"

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFeaturedPlayer sets the player listed first in the player dropdown.
func WithFeaturedPlayer(id int64) Option {
	return func(s *Service) {
		if id > 0 {
			s.featuredID = id
		}
	}
}

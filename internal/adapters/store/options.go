package store

import "github.com/okian/hoops/pkg/logger"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets the logger used by the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSQLDir sets the directory of named *.sql statements that Relation
// resolves in database mode.
func WithSQLDir(dir string) Option {
	return func(s *Store) {
		s.sqlDir = dir
	}
}

package repository

import (
	"context"
	"fmt"
)

// Supported store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a Store implementation.
type Options struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
}

// Open builds the configured store. The returned close function is never
// nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Driver {
	case DriverMemory, "":
		return NewInMemoryStore(), noop, nil
	case DriverSQLite:
		s, err := NewSQLiteStore(ctx, opts.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case DriverPostgres:
		s, err := NewPostgresStore(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	// Snapshot model related methods.
	CreateSnapshot(ctx context.Context, create *Snapshot) (*Snapshot, error)
	ListSnapshots(ctx context.Context, find *FindSnapshot) ([]*Snapshot, error)
	DeleteSnapshot(ctx context.Context, delete *DeleteSnapshot) error

	// Simulation model related methods.
	CreateSimulation(ctx context.Context, create *Simulation) (*Simulation, error)
	ListSimulations(ctx context.Context, find *FindSimulation) ([]*Simulation, error)
	DeleteSimulation(ctx context.Context, delete *DeleteSimulation) error
}

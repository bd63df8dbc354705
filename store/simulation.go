package store

import (
	"context"
)

// Simulation is a persisted what-if projection, kept so users can revisit
// past scenarios and compare them against what actually happened.
type Simulation struct {
	ID        int32
	UID       string
	UserID    string
	CreatedTs int64

	Action string
	// Params is the JSON-encoded request parameters.
	Params string
	// Result is the JSON-encoded projection.
	Result string
}

// FindSimulation filters simulation queries.
type FindSimulation struct {
	ID     *int32
	UID    *string
	UserID *string
	Action *string

	Limit  *int
	Offset *int
}

// DeleteSimulation identifies simulations to remove.
type DeleteSimulation struct {
	ID     *int32
	UserID *string
}

func (s *Store) CreateSimulation(ctx context.Context, create *Simulation) (*Simulation, error) {
	return s.driver.CreateSimulation(ctx, create)
}

func (s *Store) ListSimulations(ctx context.Context, find *FindSimulation) ([]*Simulation, error) {
	return s.driver.ListSimulations(ctx, find)
}

func (s *Store) DeleteSimulation(ctx context.Context, delete *DeleteSimulation) error {
	return s.driver.DeleteSimulation(ctx, delete)
}

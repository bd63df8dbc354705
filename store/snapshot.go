package store

import (
	"context"
)

// Snapshot is a persisted baseline snapshot: the per-pattern scores a
// user's simulations and degradation checks compare against.
type Snapshot struct {
	ID        int32
	UID       string
	UserID    string
	CreatedTs int64

	Days   int
	Source string
	// Scores is the JSON-encoded map of pattern id to 0-100 score.
	Scores string
}

// FindSnapshot filters snapshot queries.
type FindSnapshot struct {
	ID     *int32
	UID    *string
	UserID *string

	// Latest restricts the result to the newest snapshot per the filter.
	Latest bool
	Limit  *int
}

// DeleteSnapshot identifies snapshots to remove.
type DeleteSnapshot struct {
	ID     *int32
	UserID *string
}

func (s *Store) CreateSnapshot(ctx context.Context, create *Snapshot) (*Snapshot, error) {
	return s.driver.CreateSnapshot(ctx, create)
}

func (s *Store) ListSnapshots(ctx context.Context, find *FindSnapshot) ([]*Snapshot, error) {
	return s.driver.ListSnapshots(ctx, find)
}

// GetLatestSnapshot returns the newest snapshot for a user, or nil when
// none exists.
func (s *Store) GetLatestSnapshot(ctx context.Context, userID string) (*Snapshot, error) {
	list, err := s.driver.ListSnapshots(ctx, &FindSnapshot{UserID: &userID, Latest: true})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, delete *DeleteSnapshot) error {
	return s.driver.DeleteSnapshot(ctx, delete)
}

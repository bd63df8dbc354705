package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/nutrisense/store"
)

func (d *DB) CreateSnapshot(ctx context.Context, create *store.Snapshot) (*store.Snapshot, error) {
	fields := []string{"uid", "user_id", "days", "source", "scores"}
	placeholderValues := []any{create.UID, create.UserID, create.Days, create.Source, create.Scores}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO snapshot (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}

	return create, nil
}

func (d *DB) ListSnapshots(ctx context.Context, find *store.FindSnapshot) ([]*store.Snapshot, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "snapshot.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "snapshot.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "snapshot.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, user_id, created_ts, days, source, scores
		FROM snapshot
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY snapshot.created_ts DESC`

	if find.Latest {
		query += " LIMIT 1"
	} else if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Snapshot, 0)
	for rows.Next() {
		snapshot := &store.Snapshot{}
		if err := rows.Scan(
			&snapshot.ID,
			&snapshot.UID,
			&snapshot.UserID,
			&snapshot.CreatedTs,
			&snapshot.Days,
			&snapshot.Source,
			&snapshot.Scores,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		list = append(list, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteSnapshot(ctx context.Context, delete *store.DeleteSnapshot) error {
	where, args := []string{"1 = 1"}, []any{}

	if v := delete.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	stmt := `DELETE FROM snapshot WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/nutrisense/store"
)

func (d *DB) CreateSimulation(ctx context.Context, create *store.Simulation) (*store.Simulation, error) {
	fields := []string{"uid", "user_id", "action", "params", "result"}
	placeholderValues := []any{create.UID, create.UserID, create.Action, create.Params, create.Result}

	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		placeholderValues = append(placeholderValues, create.CreatedTs)
	}

	stmt := `INSERT INTO simulation (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(placeholderValues)) + `)
		RETURNING id, created_ts`

	if err := d.db.QueryRowContext(ctx, stmt, placeholderValues...).Scan(
		&create.ID,
		&create.CreatedTs,
	); err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}

	return create, nil
}

func (d *DB) ListSimulations(ctx context.Context, find *store.FindSimulation) ([]*store.Simulation, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "simulation.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UID; v != nil {
		where, args = append(where, "simulation.uid = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "simulation.user_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Action; v != nil {
		where, args = append(where, "simulation.action = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, uid, user_id, created_ts, action, params, result
		FROM simulation
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY simulation.created_ts DESC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query simulations: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Simulation, 0)
	for rows.Next() {
		simulation := &store.Simulation{}
		if err := rows.Scan(
			&simulation.ID,
			&simulation.UID,
			&simulation.UserID,
			&simulation.CreatedTs,
			&simulation.Action,
			&simulation.Params,
			&simulation.Result,
		); err != nil {
			return nil, fmt.Errorf("failed to scan simulation: %w", err)
		}
		list = append(list, simulation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate simulations: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteSimulation(ctx context.Context, delete *store.DeleteSimulation) error {
	where, args := []string{"1 = 1"}, []any{}

	if v := delete.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.UserID; v != nil {
		where, args = append(where, "user_id = "+placeholder(len(args)+1)), append(args, *v)
	}

	stmt := `DELETE FROM simulation WHERE ` + strings.Join(where, " AND ")
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to delete simulation: %w", err)
	}
	return nil
}

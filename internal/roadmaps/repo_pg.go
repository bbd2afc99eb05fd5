package roadmaps

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, record Record) error {
	const query = `
INSERT INTO roadmaps (id, user_id, field, title, roadmap_data, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	raw, err := encodeGraph(record)
	if err != nil {
		return fmt.Errorf("encode roadmap: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.Field,
		record.Title,
		string(raw),
		record.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, roadmapID string) (Record, error) {
	const query = `
SELECT id, user_id, field, title, roadmap_data, created_at
FROM roadmaps
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return scanRecord(r.DB.QueryRowContext(ctx, query, roadmapID, userID))
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT id, user_id, field, title, roadmap_data, created_at
FROM roadmaps
WHERE user_id = $1
ORDER BY created_at DESC
OFFSET $2`
	args := []any{userID, offset}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		record Record
		raw    []byte
	)
	err := row.Scan(&record.ID, &record.UserID, &record.Field, &record.Title, &raw, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	record.GraphJSON = append([]byte(nil), raw...)
	if err := json.Unmarshal(raw, &record.Graph); err != nil {
		return Record{}, fmt.Errorf("decode roadmap %s: %w", record.ID, err)
	}
	return record, nil
}

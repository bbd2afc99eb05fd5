package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"career-coach/internal/extract"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, user_id, company_name, job_title, job_description, resume_url,
       extraction_method, ats_score, analysis, created_at`

func (r *PGRepo) Create(ctx context.Context, record Record) error {
	const query = `
INSERT INTO resume_analyses (
	id, user_id, company_name, job_title, job_description, resume_url,
	extraction_method, ats_score, analysis, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	raw, err := encodeAnalysis(record)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.CompanyName,
		record.JobTitle,
		record.JobDescription,
		record.ResumeURL,
		string(record.ExtractionMethod),
		record.ATSScore,
		string(raw),
		record.CreatedAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, analysisID string) (Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM resume_analyses
WHERE id = $1 AND user_id = $2
LIMIT 1`
	return scanRecord(r.DB.QueryRowContext(ctx, query, analysisID, userID))
}

func (r *PGRepo) Latest(ctx context.Context, userID string) (Record, error) {
	query := `
SELECT ` + selectColumns + `
FROM resume_analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1`
	return scanRecord(r.DB.QueryRowContext(ctx, query, userID))
}

// ListByUser returns analyses newest first. A limit of zero means no limit.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Record, error) {
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + selectColumns + `
FROM resume_analyses
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
		method string
		raw    []byte
	)
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.CompanyName,
		&record.JobTitle,
		&record.JobDescription,
		&record.ResumeURL,
		&method,
		&record.ATSScore,
		&raw,
		&record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	record.ExtractionMethod = extract.Method(method)
	record.AnalysisJSON = append([]byte(nil), raw...)
	record.Analysis, err = decodeAnalysis(raw)
	if err != nil {
		return Record{}, fmt.Errorf("decode analysis %s: %w", record.ID, err)
	}
	return record, nil
}

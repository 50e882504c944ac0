package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "coderefine/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

const analysisColumns = `id, created_at, mode, language, score, review,
       suggestions_json, security_json, complexity_time, complexity_space,
       improved_code, explanation, archive_url, duration_ms`

// Save inserts an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO code_analyses
  (id, created_at, mode, language, score, review,
   suggestions_json, security_json, complexity_time, complexity_space,
   improved_code, explanation, archive_url, duration_ms)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
  mode=VALUES(mode), score=VALUES(score), review=VALUES(review),
  suggestions_json=VALUES(suggestions_json), security_json=VALUES(security_json),
  complexity_time=VALUES(complexity_time), complexity_space=VALUES(complexity_space),
  improved_code=VALUES(improved_code), explanation=VALUES(explanation),
  archive_url=VALUES(archive_url), duration_ms=VALUES(duration_ms);
`
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, q,
		a.ID, createdAt, stringOrDash(string(a.Mode)), a.Language, a.Score, a.Review,
		marshalList(a.Suggestions), marshalList(a.SecurityIssues),
		a.Complexity.Time, a.Complexity.Space,
		a.ImprovedCode, a.Explanation, a.ArchiveURL, a.DurationMS,
	)
	return err
}

// Get by ID
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT ` + analysisColumns + `
FROM code_analyses
WHERE id=? LIMIT 1;
`
	return scanAnalysis(r.db.QueryRowContext(ctx, q, id))
}

// Latest analyses, newest first
func (r *AnalysisRepository) Latest(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT ` + analysisColumns + `
FROM code_analyses
ORDER BY created_at DESC, id DESC LIMIT ?;
`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnalyses(rows)
}

// Paginate returns a page of analyses ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Analysis, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT ` + analysisColumns + `
FROM code_analyses
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;
`
	rows, err := r.db.QueryContext(ctx, q, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnalyses(rows)
}

// Summary aggregates analyses since N days
func (r *AnalysisRepository) Summary(ctx context.Context, sinceDays int) (domain.Summary, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	const q = `
SELECT COUNT(*),
       COALESCE(SUM(mode = 'demo'), 0),
       COALESCE(AVG(score), 0)
FROM code_analyses
WHERE created_at >= DATE_SUB(NOW(), INTERVAL ? DAY);
`
	var s domain.Summary
	err := r.db.QueryRowContext(ctx, q, sinceDays).Scan(&s.TotalAnalyses, &s.DemoAnalyses, &s.AverageScore)
	return s, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*domain.Analysis, error) {
	var a domain.Analysis
	var suggestions, security string
	if err := row.Scan(
		&a.ID, &a.CreatedAt, &a.Mode, &a.Language, &a.Score, &a.Review,
		&suggestions, &security, &a.Complexity.Time, &a.Complexity.Space,
		&a.ImprovedCode, &a.Explanation, &a.ArchiveURL, &a.DurationMS,
	); err != nil {
		return nil, err
	}
	a.Suggestions = unmarshalList(suggestions)
	a.SecurityIssues = unmarshalList(security)
	return &a, nil
}

func collectAnalyses(rows *sql.Rows) ([]*domain.Analysis, error) {
	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, id AnalysisID) (*Analysis, error)
	Latest(ctx context.Context, limit int) ([]*Analysis, error)
	Paginate(ctx context.Context, page, pageSize int) ([]*Analysis, error)
	Summary(ctx context.Context, sinceDays int) (Summary, error)
}

// Summary rekap of stored analyses
type Summary struct {
	TotalAnalyses int     `json:"total_analyses"`
	DemoAnalyses  int     `json:"demo_analyses"`
	AverageScore  float64 `json:"average_score"`
}

// ArchiveStore port (interface untuk penyimpanan artefak)
type ArchiveStore interface {
	Archive(ctx context.Context, id AnalysisID, submission, result []byte) (string, error)
}

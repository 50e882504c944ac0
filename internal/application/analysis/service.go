package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coderefine/internal/application"
	domai "coderefine/internal/domain/ai"
	domain "coderefine/internal/domain/analysis"
	"coderefine/internal/infra/ai/prompt"
)

// ErrEmptyCode: the one client error the analyze path can produce.
var ErrEmptyCode = errors.New("code must not be empty")

// ErrHistoryDisabled is returned by history use-cases when no repository is configured.
var ErrHistoryDisabled = errors.New("analysis history is disabled")

const defaultReviewTimeout = 30 * time.Second

// Service implements use-cases for code analysis.
// Safe for concurrent use; every call is an independent request/response cycle.
type Service struct {
	AI      domai.Client        // nil = permanent demo mode
	Repo    domain.Repository   // nil = history disabled
	Archive domain.ArchiveStore // nil = archiving disabled
	Clock   application.Clock
	Timeout time.Duration
	Log     *zap.Logger
}

type AnalyzeCommand struct {
	Code     string
	Language string
}

// StatusReport for GET /api/status.
type StatusReport struct {
	Status  string `json:"status"`
	Mode    string `json:"mode"`
	Message string `json:"message"`
}

//
// ==== USE CASES ====
//

// Analyze runs the full pipeline: validate, call the model backend, parse,
// and on any backend or parse failure substitute the demo result. The only
// error it ever returns for non-empty input is from context cancellation of
// the caller itself; backend failures are never surfaced.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*domain.Analysis, error) {
	code := strings.TrimSpace(cmd.Code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	now := s.Clock.Now()
	started := time.Now()

	a := s.review(ctx, code, cmd.Language)
	a.ID = domain.AnalysisID(uuid.New().String())
	a.CreatedAt = now
	a.Language = strings.TrimSpace(cmd.Language)
	a.DurationMS = time.Since(started).Milliseconds()

	// Best-effort side effects; failures are logged, never surfaced.
	if s.Archive != nil {
		if result, err := json.Marshal(a); err == nil {
			if url, err := s.Archive.Archive(ctx, a.ID, []byte(code), result); err != nil {
				s.logger().Warn("archive failed", zap.String("id", string(a.ID)), zap.Error(err))
			} else {
				a.ArchiveURL = url
			}
		}
	}
	if s.Repo != nil {
		if err := s.Repo.Save(ctx, a); err != nil {
			s.logger().Warn("history save failed", zap.String("id", string(a.ID)), zap.Error(err))
		}
	}

	return a, nil
}

// review tries the configured backend and falls back to demo mode.
func (s *Service) review(ctx context.Context, code, language string) *domain.Analysis {
	if s.AI == nil {
		return prompt.GenerateDemoResult(code)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultReviewTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := s.AI.Review(cctx, domai.ReviewRequest{Code: code, Language: language})
	if err != nil {
		s.logger().Warn("model backend failed, using demo mode",
			zap.String("provider", s.AI.Name()), zap.Error(err))
		return prompt.GenerateDemoResult(code)
	}

	a, err := prompt.ParseReview(raw)
	if err != nil {
		s.logger().Warn("model output unparsable, using demo mode",
			zap.String("provider", s.AI.Name()), zap.Error(err))
		return prompt.GenerateDemoResult(code)
	}
	a.Mode = domain.Mode(s.AI.Name())
	return a
}

// Status reports which backend serves the next request. It does not probe
// the provider; a live probe from an unauthenticated endpoint would let
// anyone spend API quota.
func (s *Service) Status() StatusReport {
	if s.AI == nil {
		return StatusReport{
			Status:  "ok",
			Mode:    string(domain.ModeDemo),
			Message: "Using Demo Mode (no AI backend configured)",
		}
	}
	return StatusReport{
		Status:  "ok",
		Mode:    s.AI.Name(),
		Message: s.AI.Name() + " configured",
	}
}

// Latest returns the N most recent analyses.
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if s.Repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.Repo.Latest(ctx, limit)
}

// Get returns one stored analysis by id.
func (s *Service) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	if s.Repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.Repo.Get(ctx, id)
}

// Paginate returns a page of stored analyses, newest first.
func (s *Service) Paginate(ctx context.Context, page, pageSize int) ([]*domain.Analysis, error) {
	if s.Repo == nil {
		return nil, ErrHistoryDisabled
	}
	return s.Repo.Paginate(ctx, page, pageSize)
}

// Summary aggregates stored analyses over the last N days.
func (s *Service) Summary(ctx context.Context, sinceDays int) (domain.Summary, error) {
	if s.Repo == nil {
		return domain.Summary{}, ErrHistoryDisabled
	}
	return s.Repo.Summary(ctx, sinceDays)
}

func (s *Service) logger() *zap.Logger {
	if s.Log != nil {
		return s.Log
	}
	return zap.NewNop()
}

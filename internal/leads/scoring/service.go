// Package scoring turns a lead's history into a bounded score, quality tier,
// confidence and recommended action.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/events"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/domain"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/repository"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/internal/leads/signals"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/config"
	"github.com/theplanbeta/plan-beta-dashboard-sub001/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	rescorePageSize = 50

	defaultScoreTimeout = 20 * time.Second

	reasonLeadNotFound    = "Lead not found"
	reasonLeadUnavailable = "Lead could not be loaded"
	reasonScoringFailed   = "Scoring failed unexpectedly"
	reasonMessagesMissing = "Direct messages could not be loaded; scored without them"
	reasonCommentsMissing = "Comments could not be loaded; scored without them"
)

// Analyzer is the semantic analysis collaborator. Any error or nil result is
// treated as unavailable.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*domain.SemanticAnalysis, error)
}

// Settings tunes the scoring service.
type Settings struct {
	// RegionalLanguage is the language code that earns the regional bonus.
	RegionalLanguage string
	// RescoreInterval is the minimum gap between leads in a batch rescore.
	// Zero disables pacing.
	RescoreInterval time.Duration
	// ScoreTimeout bounds the work for a single lead inside a batch.
	ScoreTimeout time.Duration
}

// SettingsFromConfig reads the scoring knobs shared by every binary.
func SettingsFromConfig(cfg config.ScoringConfig) Settings {
	return Settings{
		RegionalLanguage: cfg.GetAIRegionalLanguage(),
		RescoreInterval:  cfg.GetRescoreInterval(),
		ScoreTimeout:     cfg.GetScoreTimeout(),
	}
}

// ErrIncompleteHistory is returned when messages or comments could not be
// loaded. The result is still returned to the caller but is not stored, so a
// transient read failure cannot demote a lead.
var ErrIncompleteHistory = errors.New("lead history incomplete; score not persisted")

// RescoreSummary reports the outcome of a batch rescore.
type RescoreSummary struct {
	Processed int `json:"processed"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Service computes lead scores.
type Service struct {
	repo      repository.LeadsRepository
	analyzer  Analyzer
	bus       events.Bus
	log       *logger.Logger
	settings  Settings
	now       func() time.Time
	extractor *signals.Extractor
	group     singleflight.Group
}

// New creates a new scoring service.
func New(repo repository.LeadsRepository, analyzer Analyzer, log *logger.Logger, settings Settings) *Service {
	if settings.ScoreTimeout <= 0 {
		settings.ScoreTimeout = defaultScoreTimeout
	}

	s := &Service{
		repo:     repo,
		analyzer: analyzer,
		log:      log,
		settings: settings,
	}
	s.SetClock(nil)
	return s
}

// SetEventBus enables LeadScored events after each persisted score.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// SetClock overrides the time source. A nil clock restores time.Now in UTC.
func (s *Service) SetClock(now func() time.Time) {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	s.now = now
	s.extractor = signals.NewExtractor(now)
}

// ScoreLead computes the score for a lead and persists score and quality.
// It never fails: problems produce a safe default result with an explanation.
// A result built from incomplete history is returned but not stored.
// Concurrent calls for the same lead share one computation.
func (s *Service) ScoreLead(ctx context.Context, leadID uuid.UUID) domain.Result {
	value, _, _ := s.group.Do("score:"+leadID.String(), func() (interface{}, error) {
		result, _ := s.run(ctx, leadID, true)
		return result, nil
	})
	return value.(domain.Result)
}

// Evaluate computes the score for a lead without writing anything back.
func (s *Service) Evaluate(ctx context.Context, leadID uuid.UUID) domain.Result {
	value, _, _ := s.group.Do("evaluate:"+leadID.String(), func() (interface{}, error) {
		result, _ := s.run(ctx, leadID, false)
		return result, nil
	})
	return value.(domain.Result)
}

// Compute scores a history snapshot. It makes exactly one analyzer call.
func (s *Service) Compute(ctx context.Context, history signals.History) domain.Result {
	sig := s.extractor.Extract(history)
	breakdown := RuleScores(sig)
	blended := Blend(breakdown, s.analyze(ctx, history), s.settings.RegionalLanguage)
	quality := ClassifyQuality(blended.Final, sig)

	return domain.Result{
		LeadID:            history.Lead.ID,
		TotalScore:        blended.Final,
		Quality:           quality,
		Confidence:        EstimateConfidence(sig),
		Breakdown:         breakdown,
		RuleBasedTotal:    blended.RuleBasedTotal,
		AIBoost:           blended.AIBoost,
		AIAvailable:       blended.AIAvailable,
		Signals:           sig,
		RecommendedAction: RecommendAction(quality, sig),
		Reasoning:         blended.Reasoning,
		ScoredAt:          s.now(),
	}
}

// RescoreAll rescores every lead in the given statuses, one at a time, paced by
// the rescore interval. A failure on one lead is logged and counted; the batch
// only stops early when listing fails or ctx ends.
func (s *Service) RescoreAll(ctx context.Context, statuses []domain.LeadStatus) (RescoreSummary, error) {
	if len(statuses) == 0 {
		statuses = domain.ActiveStatuses
	}

	limit := rate.Inf
	if s.settings.RescoreInterval > 0 {
		limit = rate.Every(s.settings.RescoreInterval)
	}
	limiter := rate.NewLimiter(limit, 1)

	var summary RescoreSummary
	cursor := repository.LeadCursor{}

	for {
		page, err := s.repo.ListLeadsByStatus(ctx, statuses, cursor, rescorePageSize)
		if err != nil {
			return summary, fmt.Errorf("list leads for rescore: %w", err)
		}

		for _, ref := range page {
			cursor = ref.Cursor()

			if err := limiter.Wait(ctx); err != nil {
				return summary, err
			}

			summary.Processed++
			if err := s.rescoreOne(ctx, ref.ID); err != nil {
				summary.Failed++
				s.log.Error("lead rescore failed", "leadId", ref.ID, "error", err)
				continue
			}
			summary.Succeeded++
		}

		if len(page) < rescorePageSize {
			break
		}
	}

	s.log.Info("lead rescore completed", "processed", summary.Processed, "succeeded", summary.Succeeded, "failed", summary.Failed)
	return summary, nil
}

func (s *Service) rescoreOne(parent context.Context, leadID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(parent, s.settings.ScoreTimeout)
	defer cancel()

	_, err := s.run(ctx, leadID, true)
	return err
}

// run loads, scores and optionally persists one lead. The returned result is
// always usable; the error only tells batch callers that something went wrong.
func (s *Service) run(ctx context.Context, leadID uuid.UUID, persist bool) (result domain.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("lead scoring panicked", "leadId", leadID, "panic", fmt.Sprint(r))
			result = domain.DefaultResult(leadID, reasonScoringFailed, s.now())
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()

	lead, err := s.repo.GetLead(ctx, leadID)
	if errors.Is(err, repository.ErrNotFound) {
		return domain.DefaultResult(leadID, reasonLeadNotFound, s.now()), err
	}
	if err != nil {
		s.log.DatabaseError("get lead", err)
		return domain.DefaultResult(leadID, reasonLeadUnavailable, s.now()), fmt.Errorf("load lead: %w", err)
	}

	var notes []string
	messages, err := s.repo.ListDirectMessages(ctx, leadID)
	if err != nil {
		s.log.DatabaseError("list direct messages", err)
		messages = nil
		notes = append(notes, reasonMessagesMissing)
	}

	comments, err := s.repo.ListComments(ctx, leadID)
	if err != nil {
		s.log.DatabaseError("list comments", err)
		comments = nil
		notes = append(notes, reasonCommentsMissing)
	}

	result = s.Compute(ctx, signals.History{Lead: lead, Messages: messages, Comments: comments})
	if len(notes) > 0 {
		result.Reasoning = append(notes, result.Reasoning...)
	}

	if !persist {
		return result, nil
	}
	if len(notes) > 0 {
		return result, ErrIncompleteHistory
	}

	if err := s.repo.UpdateLeadScore(ctx, leadID, repository.UpdateLeadScoreParams{
		Score:          result.TotalScore,
		Quality:        result.Quality,
		ScoreUpdatedAt: result.ScoredAt,
	}); err != nil {
		s.log.DatabaseError("update lead score", err)
		return result, fmt.Errorf("persist lead score: %w", err)
	}

	s.log.ScoreEvent(leadID.String(), result.TotalScore, result.Quality.String(), result.Confidence,
		result.RecommendedAction.Type.String(), result.AIAvailable)
	s.publishScored(ctx, lead, result)
	return result, nil
}

// analyze treats an analyzer error or panic as "unavailable" so the rule
// score still stands.
func (s *Service) analyze(ctx context.Context, history signals.History) (analysis *domain.SemanticAnalysis) {
	if s.analyzer == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("semantic analysis panicked", "leadId", history.Lead.ID, "panic", fmt.Sprint(r))
			analysis = nil
		}
	}()

	analysis, err := s.analyzer.Analyze(ctx, signals.AnalysisText(history))
	if err != nil {
		s.log.Warn("semantic analysis unavailable", "leadId", history.Lead.ID, "error", err)
		return nil
	}
	return analysis
}

func (s *Service) publishScored(ctx context.Context, lead domain.Lead, result domain.Result) {
	if s.bus == nil {
		return
	}

	previous := ""
	if lead.Quality != nil {
		previous = lead.Quality.String()
	}

	s.bus.Publish(ctx, events.LeadScored{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          lead.ID,
		Score:           result.TotalScore,
		Quality:         result.Quality.String(),
		PreviousQuality: previous,
	})
}

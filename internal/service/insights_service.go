package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/vwgov/hr-signals/internal/domain"
	"github.com/vwgov/hr-signals/internal/persistence"
	"github.com/vwgov/hr-signals/internal/repository"
)

const riskReportCacheKey = "hr-signals:risk-report"

// RiskReport is the combined, ranked risk output served to reporting
// collaborators.
type RiskReport struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Signals     []domain.RiskSignal `json:"signals"`
}

// InsightsService orchestrates conversation snapshots through the topic
// scorer and risk aggregator. The caller-facing reads take a fresh snapshot
// from the conversation log on every call; the risk report is cached in
// redis for a short TTL since it fans out over tickets and conversations.
type InsightsService struct {
	conversations repository.ConversationReader
	tickets       *TicketService
	topics        *TopicService
	risks         *RiskService
	cache         *persistence.Redis
	cacheTTL      time.Duration
	logger        *zap.Logger
}

// InsightsDependencies bundles collaborators for the insights service.
type InsightsDependencies struct {
	Conversations repository.ConversationReader
	Tickets       *TicketService
	Topics        *TopicService
	Risks         *RiskService
	Cache         *persistence.Redis
	CacheTTL      time.Duration
	Logger        *zap.Logger
}

// NewInsightsService constructs the service.
func NewInsightsService(deps InsightsDependencies) *InsightsService {
	return &InsightsService{
		conversations: deps.Conversations,
		tickets:       deps.Tickets,
		topics:        deps.Topics,
		risks:         deps.Risks,
		cache:         deps.Cache,
		cacheTTL:      deps.CacheTTL,
		logger:        deps.Logger,
	}
}

// TopicScores scores a fresh conversation snapshot, ordered by score
// descending.
func (s *InsightsService) TopicScores(ctx context.Context, limit int) ([]domain.TopicScore, error) {
	records, err := s.conversations.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.topics.ScoreTopics(records), nil
}

// Alerts derives follow-up alerts from the scored snapshot.
func (s *InsightsService) Alerts(ctx context.Context, limit int) ([]domain.InsightAlert, error) {
	scores, err := s.TopicScores(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.topics.GenerateAlerts(scores), nil
}

// RiskReport combines open tickets, topic scores and the conversation
// snapshot into ranked risk signals. Served from redis when a fresh report
// is cached; cache failures degrade to recomputation.
func (s *InsightsService) RiskReport(ctx context.Context, limit int) (*RiskReport, error) {
	if cached := s.cachedReport(ctx); cached != nil {
		return cached, nil
	}

	records, err := s.conversations.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	open := domain.TicketStatusOpen
	openTickets, err := s.tickets.ListTickets(ctx, &open)
	if err != nil {
		return nil, err
	}
	scores := s.topics.ScoreTopics(records)

	report := &RiskReport{
		GeneratedAt: time.Now(),
		Signals:     s.risks.ComputeRiskSignals(openTickets, scores, records),
	}
	s.storeReport(ctx, report)
	return report, nil
}

func (s *InsightsService) cachedReport(ctx context.Context) *RiskReport {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Client.Get(ctx, riskReportCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var report RiskReport
	if err := json.Unmarshal(raw, &report); err != nil {
		s.logger.Warn("discarding malformed cached risk report", zap.Error(err))
		return nil
	}
	return &report
}

func (s *InsightsService) storeReport(ctx context.Context, report *RiskReport) {
	if s.cache == nil || s.cache.Client == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, riskReportCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("unable to cache risk report", zap.Error(err))
	}
}

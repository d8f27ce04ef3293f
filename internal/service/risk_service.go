package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vwgov/hr-signals/internal/domain"
)

// RiskService merges ticket analytics with topic scoring into a single ranked
// list of risk signals. Each rule is evaluated independently and every
// matching rule emits, so one topic may generate several signals.
type RiskService struct {
	recentWindow time.Duration
	now          func() time.Time
}

// NewRiskService constructs the service. recentWindowDays bounds what counts
// as a "recent" conversation for the sentiment-spike rule.
func NewRiskService(recentWindowDays int) *RiskService {
	if recentWindowDays <= 0 {
		recentWindowDays = 7
	}
	return &RiskService{
		recentWindow: time.Duration(recentWindowDays) * 24 * time.Hour,
		now:          time.Now,
	}
}

// ComputeRiskSignals evaluates every rule over the open tickets, the scored
// topics and the conversation snapshot. The result is ordered high, medium,
// low; within a level the emission order is preserved.
func (s *RiskService) ComputeRiskSignals(openTickets []domain.Ticket, scores []domain.TopicScore, conversations []domain.ConversationRecord) []domain.RiskSignal {
	signals := []domain.RiskSignal{}

	signals = append(signals, s.openTicketSignals(openTickets)...)
	signals = append(signals, s.emergencyPatternSignals(openTickets)...)
	signals = append(signals, s.sentimentSpikeSignals(scores, conversations)...)
	signals = append(signals, s.departmentIssueSignals(scores)...)
	if gap := s.knowledgeGapSignal(conversations); gap != nil {
		signals = append(signals, *gap)
	}

	sort.SliceStable(signals, func(i, j int) bool {
		return signals[i].RiskLevel.Rank() < signals[j].RiskLevel.Rank()
	})
	return signals
}

// openTicketSignals surfaces each open emergency ticket, level derived from
// its urgency.
func (s *RiskService) openTicketSignals(openTickets []domain.Ticket) []domain.RiskSignal {
	signals := make([]domain.RiskSignal, 0, len(openTickets))
	for _, ticket := range openTickets {
		level := domain.RiskLevelMedium
		if ticket.Urgency == domain.TicketUrgencyCritical || ticket.Urgency == domain.TicketUrgencyHigh {
			level = domain.RiskLevelHigh
		}
		signals = append(signals, domain.RiskSignal{
			RiskType:      domain.RiskEmergencyTicket,
			RiskLevel:     level,
			Description:   fmt.Sprintf("Open emergency ticket %s: %s (%s)", ticket.ID, joinCategories(ticket.Categories), ticket.Department),
			AffectedCount: 1,
			Trend:         domain.TrendStable,
		})
	}
	return signals
}

// emergencyPatternSignals flags repeated categories (>=3 open tickets) and
// department concentration (>=2 open tickets).
func (s *RiskService) emergencyPatternSignals(openTickets []domain.Ticket) []domain.RiskSignal {
	categoryCounts := map[domain.RedFlagCategory]int{}
	categoryOrder := []domain.RedFlagCategory{}
	departmentCounts := map[string]int{}
	departmentOrder := []string{}

	for _, ticket := range openTickets {
		for _, category := range ticket.Categories {
			if categoryCounts[category] == 0 {
				categoryOrder = append(categoryOrder, category)
			}
			categoryCounts[category]++
		}
		if departmentCounts[ticket.Department] == 0 {
			departmentOrder = append(departmentOrder, ticket.Department)
		}
		departmentCounts[ticket.Department]++
	}

	signals := []domain.RiskSignal{}
	for _, category := range categoryOrder {
		if count := categoryCounts[category]; count >= 3 {
			signals = append(signals, domain.RiskSignal{
				RiskType:      domain.RiskEmergencyPattern,
				RiskLevel:     domain.RiskLevelHigh,
				Description:   fmt.Sprintf("Multiple emergency reports about %s (%d cases)", category, count),
				AffectedCount: count,
				Trend:         domain.TrendIncreasing,
			})
		}
	}
	for _, dept := range departmentOrder {
		if count := departmentCounts[dept]; count >= 2 {
			signals = append(signals, domain.RiskSignal{
				RiskType:      domain.RiskDepartmentEmergency,
				RiskLevel:     domain.RiskLevelMedium,
				Description:   fmt.Sprintf("%s department has %d emergency reports", dept, count),
				AffectedCount: count,
				Trend:         domain.TrendStable,
			})
		}
	}
	return signals
}

// sentimentSpikeSignals flags topics with negative average sentiment and
// significant recent volume. Below -0.5 the signal is high, otherwise medium.
func (s *RiskService) sentimentSpikeSignals(scores []domain.TopicScore, conversations []domain.ConversationRecord) []domain.RiskSignal {
	cutoff := s.now().Add(-s.recentWindow)
	recentByTopic := map[string]int{}
	for _, rec := range conversations {
		if rec.DateTime.Before(cutoff) {
			continue
		}
		recentByTopic[rec.Topic]++
	}

	signals := []domain.RiskSignal{}
	for _, topic := range scores {
		if topic.AvgSentiment >= -0.3 {
			continue
		}
		if recentByTopic[topic.Topic] <= 5 {
			continue
		}
		level := domain.RiskLevelMedium
		if topic.AvgSentiment < -0.5 {
			level = domain.RiskLevelHigh
		}
		signals = append(signals, domain.RiskSignal{
			RiskType:      domain.RiskNegativeSentimentSpike,
			RiskLevel:     level,
			Description:   fmt.Sprintf("Rapidly increasing negative sentiment about %s", topic.Topic),
			AffectedCount: topic.UniqueAskers,
			Trend:         domain.TrendIncreasing,
		})
	}
	return signals
}

// departmentIssueSignals flags department-wide topics with more than three
// distinct askers.
func (s *RiskService) departmentIssueSignals(scores []domain.TopicScore) []domain.RiskSignal {
	signals := []domain.RiskSignal{}
	for _, topic := range scores {
		if topic.Category != domain.TopicDepartmentWide || topic.UniqueAskers <= 3 {
			continue
		}
		signals = append(signals, domain.RiskSignal{
			RiskType:      domain.RiskDepartmentIssue,
			RiskLevel:     domain.RiskLevelMedium,
			Description:   fmt.Sprintf("Growing concern in %s about %s", strings.Join(topic.Departments, ", "), topic.Topic),
			AffectedCount: topic.UniqueAskers,
			Trend:         domain.TrendStable,
		})
	}
	return signals
}

// knowledgeGapSignal looks for a cluster of low-sentiment conversations
// repeating one topic: more than five conversations below -0.2 where the most
// common topic among them appears more than three times.
func (s *RiskService) knowledgeGapSignal(conversations []domain.ConversationRecord) *domain.RiskSignal {
	lowSentiment := []domain.ConversationRecord{}
	for _, rec := range conversations {
		if rec.SentimentScore != nil && *rec.SentimentScore < -0.2 {
			lowSentiment = append(lowSentiment, rec)
		}
	}
	if len(lowSentiment) <= 5 {
		return nil
	}

	counts := map[string]int{}
	var topTopic string
	var topCount int
	for _, rec := range lowSentiment {
		counts[rec.Topic]++
		if counts[rec.Topic] > topCount {
			topTopic = rec.Topic
			topCount = counts[rec.Topic]
		}
	}
	if topCount <= 3 {
		return nil
	}
	return &domain.RiskSignal{
		RiskType:      domain.RiskKnowledgeGap,
		RiskLevel:     domain.RiskLevelLow,
		Description:   fmt.Sprintf("Repeated questions about %s may indicate knowledge gap", topTopic),
		AffectedCount: topCount,
		Trend:         domain.TrendStable,
	}
}

func joinCategories(categories []domain.RedFlagCategory) string {
	parts := make([]string, 0, len(categories))
	for _, c := range categories {
		parts = append(parts, string(c))
	}
	return strings.Join(parts, ", ")
}

package service

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vwgov/hr-signals/internal/domain"
)

// TopicService aggregates conversation snapshots into per-topic statistics
// and converts them into significance scores. It is stateless: every call
// rebuilds from the snapshot passed in.
type TopicService struct {
	logger *zap.Logger
}

// NewTopicService constructs the service.
func NewTopicService(logger *zap.Logger) *TopicService {
	return &TopicService{logger: logger}
}

// Aggregate groups records by topic in a single pass. The grouping key is the
// record's topic verbatim: "Benefits" and "benefits" are distinct topics, a
// documented policy decision rather than a normalization bug.
func (s *TopicService) Aggregate(records []domain.ConversationRecord) map[string]*domain.TopicStats {
	stats := map[string]*domain.TopicStats{}
	for _, rec := range records {
		topic, ok := stats[rec.Topic]
		if !ok {
			topic = &domain.TopicStats{
				Topic:            rec.Topic,
				EmployeeIDs:      map[string]struct{}{},
				PerEmployeeCount: map[string]int{},
				Departments:      map[string]struct{}{},
			}
			stats[rec.Topic] = topic
		}
		topic.EmployeeIDs[rec.EmployeeID] = struct{}{}
		topic.PerEmployeeCount[rec.EmployeeID]++
		topic.Departments[rec.Department] = struct{}{}
		if rec.SentimentScore != nil {
			topic.SentimentSamples = append(topic.SentimentSamples, *rec.SentimentScore)
		}
		if !rec.DateTime.IsZero() {
			topic.Timestamps = append(topic.Timestamps, rec.DateTime)
		}
	}
	return stats
}

// ScoreTopics aggregates and scores a conversation snapshot, sorted by score
// descending. A failure scoring one topic never aborts the batch: that topic
// degrades to a zero-valued individual entry and scoring continues.
func (s *TopicService) ScoreTopics(records []domain.ConversationRecord) []domain.TopicScore {
	stats := s.Aggregate(records)

	scores := make([]domain.TopicScore, 0, len(stats))
	for _, topic := range stats {
		score, err := s.scoreTopic(topic)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("topic scoring failed, using fallback",
					zap.String("topic", topic.Topic), zap.Error(err))
			}
			score = fallbackScore(topic.Topic)
		}
		scores = append(scores, score)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	return scores
}

// scoreTopic computes the weighted significance score:
//
//	diversity        = unique / total
//	dominancePenalty = 1 - max_per_employee / total
//	score            = unique * diversity * dominancePenalty
//
// When one employee asked every question the penalty collapses the score to
// zero regardless of volume.
func (s *TopicService) scoreTopic(stats *domain.TopicStats) (score domain.TopicScore, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("score topic %q: %v", stats.Topic, r)
		}
	}()

	unique := len(stats.EmployeeIDs)
	total := 0
	maxPerEmployee := 0
	for _, count := range stats.PerEmployeeCount {
		total += count
		if count > maxPerEmployee {
			maxPerEmployee = count
		}
	}

	if total == 0 {
		return fallbackScore(stats.Topic), nil
	}

	diversity := float64(unique) / float64(total)
	dominancePenalty := 1 - float64(maxPerEmployee)/float64(total)
	weighted := float64(unique) * diversity * dominancePenalty

	return domain.TopicScore{
		Topic:                   stats.Topic,
		Score:                   weighted,
		UniqueAskers:            unique,
		TotalQuestions:          total,
		Category:                classify(unique),
		Departments:             sortedKeys(stats.Departments),
		AvgSentiment:            mean(stats.SentimentSamples),
		MaxQuestionsPerEmployee: maxPerEmployee,
	}, nil
}

// GenerateAlerts derives follow-up suggestions from scored topics.
func (s *TopicService) GenerateAlerts(scores []domain.TopicScore) []domain.InsightAlert {
	alerts := []domain.InsightAlert{}
	for _, topic := range scores {
		switch {
		case topic.UniqueAskers == 1 && topic.TotalQuestions > 5:
			alerts = append(alerts, domain.InsightAlert{
				Type:     "individual_follow_up",
				Message:  fmt.Sprintf("Employee needs personal support with %s", topic.Topic),
				Priority: domain.AlertPriorityMedium,
				Details:  fmt.Sprintf("%d questions from 1 employee", topic.TotalQuestions),
			})
		case topic.Category == domain.TopicCompanyWide && topic.AvgSentiment < -0.3:
			alerts = append(alerts, domain.InsightAlert{
				Type:     "urgent_company_issue",
				Message:  fmt.Sprintf("Widespread negative sentiment about %s", topic.Topic),
				Priority: domain.AlertPriorityHigh,
				Details:  fmt.Sprintf("%d employees expressing concerns", topic.UniqueAskers),
			})
		case topic.Category == domain.TopicDepartmentWide && topic.TotalQuestions > 10:
			alerts = append(alerts, domain.InsightAlert{
				Type:     "department_attention",
				Message:  fmt.Sprintf("Department issue with %s", topic.Topic),
				Priority: domain.AlertPriorityMedium,
				Details:  fmt.Sprintf("Affecting %v", topic.Departments),
			})
		}
	}
	return alerts
}

// classify buckets a topic by unique asker count. Lower bounds are inclusive:
// exactly 10 askers is company-wide, exactly 3 is department-wide.
func classify(uniqueAskers int) domain.TopicCategory {
	switch {
	case uniqueAskers >= 10:
		return domain.TopicCompanyWide
	case uniqueAskers >= 3:
		return domain.TopicDepartmentWide
	default:
		return domain.TopicIndividual
	}
}

func fallbackScore(topic string) domain.TopicScore {
	return domain.TopicScore{
		Topic:       topic,
		Category:    domain.TopicIndividual,
		Departments: []string{},
	}
}

func mean(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v
	}
	return sum / float64(len(samples))
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

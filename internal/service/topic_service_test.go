package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vwgov/hr-signals/internal/domain"
)

func conversationsAbout(topic, department string, employees int, questionsEach int) []domain.ConversationRecord {
	records := make([]domain.ConversationRecord, 0, employees*questionsEach)
	for e := 0; e < employees; e++ {
		for q := 0; q < questionsEach; q++ {
			records = append(records, domain.ConversationRecord{
				EmployeeID: fmt.Sprintf("EMP-%03d", e),
				Department: department,
				Topic:      topic,
				DateTime:   time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
			})
		}
	}
	return records
}

func scoreFor(t *testing.T, scores []domain.TopicScore, topic string) domain.TopicScore {
	t.Helper()
	for _, s := range scores {
		if s.Topic == topic {
			return s
		}
	}
	t.Fatalf("topic %q not scored", topic)
	return domain.TopicScore{}
}

func TestScoreTopicsBroadInterest(t *testing.T) {
	svc := NewTopicService(nil)
	// twelve employees, one question each
	records := conversationsAbout("Parking Policy", "Operations", 12, 1)

	scores := svc.ScoreTopics(records)

	require.Len(t, scores, 1)
	score := scores[0]
	assert.Equal(t, 12, score.UniqueAskers)
	assert.Equal(t, 12, score.TotalQuestions)
	assert.Equal(t, 1, score.MaxQuestionsPerEmployee)
	// 12 * (12/12) * (1 - 1/12) = 11.0
	assert.InDelta(t, 11.0, score.Score, 0.0001)
	assert.Equal(t, domain.TopicCompanyWide, score.Category)
}

func TestScoreTopicsSingleAskerScoresZero(t *testing.T) {
	svc := NewTopicService(nil)
	// one employee asked everything, so the dominance penalty zeroes the score
	records := conversationsAbout("Payroll Error", "Finance", 1, 6)

	scores := svc.ScoreTopics(records)

	require.Len(t, scores, 1)
	score := scores[0]
	assert.Equal(t, 1, score.UniqueAskers)
	assert.Equal(t, 6, score.TotalQuestions)
	assert.Equal(t, score.TotalQuestions, score.MaxQuestionsPerEmployee)
	assert.Zero(t, score.Score)
	assert.Equal(t, domain.TopicIndividual, score.Category)
}

func TestClassificationBoundaries(t *testing.T) {
	svc := NewTopicService(nil)
	cases := []struct {
		askers int
		want   domain.TopicCategory
	}{
		{10, domain.TopicCompanyWide},
		{9, domain.TopicDepartmentWide},
		{3, domain.TopicDepartmentWide},
		{2, domain.TopicIndividual},
	}
	for _, tc := range cases {
		records := conversationsAbout("Remote Work", "HR", tc.askers, 1)
		scores := svc.ScoreTopics(records)
		require.Len(t, scores, 1)
		assert.Equal(t, tc.want, scores[0].Category, "askers=%d", tc.askers)
	}
}

func TestTopicsGroupByVerbatimKey(t *testing.T) {
	svc := NewTopicService(nil)
	records := append(
		conversationsAbout("Benefits", "HR", 2, 1),
		conversationsAbout("benefits", "HR", 3, 1)...,
	)

	scores := svc.ScoreTopics(records)

	require.Len(t, scores, 2)
	upper := scoreFor(t, scores, "Benefits")
	lower := scoreFor(t, scores, "benefits")
	assert.Equal(t, 2, upper.UniqueAskers)
	assert.Equal(t, 3, lower.UniqueAskers)
}

func TestScoresSortedDescending(t *testing.T) {
	svc := NewTopicService(nil)
	records := append(
		conversationsAbout("Parking Policy", "Operations", 12, 1),
		conversationsAbout("Payroll Error", "Finance", 1, 6)...,
	)
	records = append(records, conversationsAbout("Remote Work", "HR", 4, 1)...)

	scores := svc.ScoreTopics(records)

	require.Len(t, scores, 3)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Score, scores[i].Score)
	}
	assert.Equal(t, "Parking Policy", scores[0].Topic)
}

func TestAggregateSkipsMissingSentiment(t *testing.T) {
	svc := NewTopicService(nil)
	negative := -0.6
	positive := 0.2
	records := []domain.ConversationRecord{
		{EmployeeID: "EMP-001", Department: "HR", Topic: "Benefits", SentimentScore: &negative},
		{EmployeeID: "EMP-002", Department: "HR", Topic: "Benefits", SentimentScore: &positive},
		{EmployeeID: "EMP-003", Department: "HR", Topic: "Benefits"},
	}

	scores := svc.ScoreTopics(records)

	require.Len(t, scores, 1)
	assert.InDelta(t, -0.2, scores[0].AvgSentiment, 0.0001)
}

func TestAggregateCollectsDepartments(t *testing.T) {
	svc := NewTopicService(nil)
	records := append(
		conversationsAbout("Remote Work", "Engineering", 2, 1),
		conversationsAbout("Remote Work", "Finance", 2, 1)...,
	)

	scores := svc.ScoreTopics(records)

	require.Len(t, scores, 1)
	assert.Equal(t, []string{"Engineering", "Finance"}, scores[0].Departments)
}

func TestGenerateAlertIndividualFollowUp(t *testing.T) {
	svc := NewTopicService(nil)
	scores := svc.ScoreTopics(conversationsAbout("Payroll Error", "Finance", 1, 6))

	alerts := svc.GenerateAlerts(scores)

	require.Len(t, alerts, 1)
	assert.Equal(t, "individual_follow_up", alerts[0].Type)
	assert.Equal(t, domain.AlertPriorityMedium, alerts[0].Priority)
	assert.Contains(t, alerts[0].Message, "Payroll Error")
}

func TestGenerateAlertUrgentCompanyIssue(t *testing.T) {
	svc := NewTopicService(nil)
	negative := -0.5
	records := conversationsAbout("Layoff Rumors", "Operations", 11, 1)
	for i := range records {
		records[i].SentimentScore = &negative
	}
	scores := svc.ScoreTopics(records)

	alerts := svc.GenerateAlerts(scores)

	require.Len(t, alerts, 1)
	assert.Equal(t, "urgent_company_issue", alerts[0].Type)
	assert.Equal(t, domain.AlertPriorityHigh, alerts[0].Priority)
}

func TestGenerateAlertDepartmentAttention(t *testing.T) {
	svc := NewTopicService(nil)
	scores := svc.ScoreTopics(conversationsAbout("Overtime Rules", "Warehouse", 4, 3))

	alerts := svc.GenerateAlerts(scores)

	require.Len(t, alerts, 1)
	assert.Equal(t, "department_attention", alerts[0].Type)
}

func TestGenerateAlertsQuietTopicsProduceNone(t *testing.T) {
	svc := NewTopicService(nil)
	scores := svc.ScoreTopics(conversationsAbout("Holiday Schedule", "HR", 2, 1))

	alerts := svc.GenerateAlerts(scores)

	assert.Empty(t, alerts)
}

func TestScoreTopicsEmptySnapshot(t *testing.T) {
	svc := NewTopicService(nil)

	assert.Empty(t, svc.ScoreTopics(nil))
}

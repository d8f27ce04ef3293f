package domain

import "time"

// TopicCategory classifies how widely a topic is shared across employees.
type TopicCategory string

const (
	TopicIndividual     TopicCategory = "individual"
	TopicDepartmentWide TopicCategory = "department_wide"
	TopicCompanyWide    TopicCategory = "company_wide"
)

// TopicStats aggregates one topic's raw statistics over a conversation
// snapshot. Rebuilt on every scoring pass, never maintained incrementally.
type TopicStats struct {
	Topic            string
	EmployeeIDs      map[string]struct{}
	PerEmployeeCount map[string]int
	Departments      map[string]struct{}
	SentimentSamples []float64
	Timestamps       []time.Time
}

// TopicScore is the derived significance score for a topic.
type TopicScore struct {
	Topic                   string        `json:"topic"`
	Score                   float64       `json:"score"`
	UniqueAskers            int           `json:"unique_askers"`
	TotalQuestions          int           `json:"total_questions"`
	Category                TopicCategory `json:"category"`
	Departments             []string      `json:"departments"`
	AvgSentiment            float64       `json:"avg_sentiment"`
	MaxQuestionsPerEmployee int           `json:"max_questions_per_employee"`
}

// AlertPriority ranks insight alerts derived from scored topics.
type AlertPriority string

const (
	AlertPriorityHigh   AlertPriority = "high"
	AlertPriorityMedium AlertPriority = "medium"
)

// InsightAlert is a follow-up suggestion derived from topic scoring.
type InsightAlert struct {
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	Priority AlertPriority `json:"priority"`
	Details  string        `json:"details"`
}

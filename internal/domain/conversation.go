package domain

import "time"

// ConversationRecord is the read-only shape returned by the conversation log
// collaborator. SentimentScore is nil when the upstream pipeline produced no
// numeric score for the exchange.
type ConversationRecord struct {
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   string    `json:"employee_name"`
	Department     string    `json:"department"`
	Topic          string    `json:"topic"`
	SentimentScore *float64  `json:"sentiment_score"`
	DateTime       time.Time `json:"date_time"`
	Question       string    `json:"question"`
	Answer         string    `json:"answer"`
}

package domain

// RiskLevel ranks a risk signal's severity.
type RiskLevel string

const (
	RiskLevelHigh   RiskLevel = "high"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelLow    RiskLevel = "low"
)

// Rank returns the sort weight for the level, lower is more severe.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelHigh:
		return 0
	case RiskLevelMedium:
		return 1
	default:
		return 2
	}
}

// RiskTrend tags the observed direction of a risk signal.
type RiskTrend string

const (
	TrendIncreasing RiskTrend = "increasing"
	TrendStable     RiskTrend = "stable"
)

// Risk signal type tags.
const (
	RiskEmergencyTicket        = "emergency_ticket"
	RiskEmergencyPattern       = "emergency_pattern"
	RiskDepartmentEmergency    = "department_emergency"
	RiskNegativeSentimentSpike = "negative_sentiment_spike"
	RiskDepartmentIssue        = "department_issue"
	RiskKnowledgeGap           = "knowledge_gap"
)

// RiskSignal is a derived, ephemeral alert combining ticket analytics with
// topic scoring. Ranked by level, stable within a level.
type RiskSignal struct {
	RiskType      string    `json:"risk_type"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Description   string    `json:"description"`
	AffectedCount int       `json:"affected_count"`
	Trend         RiskTrend `json:"trend"`
}

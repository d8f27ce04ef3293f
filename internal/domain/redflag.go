package domain

// RedFlagCategory tags a class of sensitive content detected in a message.
type RedFlagCategory string

const (
	CategoryHarassment     RedFlagCategory = "Harassment"
	CategorySafety         RedFlagCategory = "Safety"
	CategoryDiscrimination RedFlagCategory = "Discrimination"
	CategoryLegal          RedFlagCategory = "Legal"
	CategoryEthics         RedFlagCategory = "Ethics"
	CategoryOther          RedFlagCategory = "Other"
)

// KnownCategories lists every category a detector or ticket may carry.
var KnownCategories = []RedFlagCategory{
	CategoryHarassment,
	CategorySafety,
	CategoryDiscrimination,
	CategoryLegal,
	CategoryEthics,
	CategoryOther,
}

// Valid reports whether the category is one of the known enumeration values.
func (c RedFlagCategory) Valid() bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// DetectionResult is produced fresh per scanned message and never persisted.
// MatchedPhrases preserves the taxonomy's phrase order within each category.
type DetectionResult struct {
	Categories     []RedFlagCategory            `json:"categories"`
	MatchedPhrases map[RedFlagCategory][]string `json:"matched_phrases"`
}

// Flagged reports whether any category matched.
func (r DetectionResult) Flagged() bool {
	return len(r.Categories) > 0
}

// Package detector flags sensitive content in free-text employee messages.
package detector

import (
	"strings"

	"github.com/vwgov/hr-signals/internal/domain"
)

// Detector scans messages against an injected keyword taxonomy. It is pure
// and safe for concurrent use.
type Detector struct {
	taxonomy Taxonomy
	ordered  []domain.RedFlagCategory
}

// New constructs a detector over the given taxonomy.
func New(taxonomy Taxonomy) *Detector {
	return &Detector{
		taxonomy: taxonomy,
		ordered:  taxonomy.Categories(),
	}
}

// Detect returns every category whose phrases appear in the message, with the
// matched phrases per category. Matching is case-insensitive substring
// containment with no word-boundary requirement: "uncomfortable" inside a
// longer word still matches. An empty result means "not an emergency".
func (d *Detector) Detect(message string) domain.DetectionResult {
	result := domain.DetectionResult{
		MatchedPhrases: make(map[domain.RedFlagCategory][]string),
	}
	lowered := strings.ToLower(message)

	for _, category := range d.ordered {
		var found []string
		for _, phrase := range d.taxonomy[category] {
			if strings.Contains(lowered, phrase) {
				found = append(found, phrase)
			}
		}
		if len(found) > 0 {
			result.Categories = append(result.Categories, category)
			result.MatchedPhrases[category] = found
		}
	}
	return result
}

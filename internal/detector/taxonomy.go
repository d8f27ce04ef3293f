package detector

import "github.com/vwgov/hr-signals/internal/domain"

// Taxonomy maps a red-flag category to its trigger phrases. Matching is
// case-insensitive substring containment, so phrases are stored lowercased.
type Taxonomy map[domain.RedFlagCategory][]string

// DefaultTaxonomy returns the standard HR trigger-phrase sets. Callers may
// inject a customized taxonomy instead; the detector never mutates it.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		domain.CategoryHarassment: {
			"harassed", "harassment", "inappropriate", "unwanted advances",
			"uncomfortable", "bullying", "intimidation",
		},
		domain.CategorySafety: {
			"unsafe", "dangerous", "hazard", "injury", "accident", "risk", "emergency",
		},
		domain.CategoryDiscrimination: {
			"discriminated", "discrimination", "bias", "unfair treatment",
			"racism", "sexism", "ageism",
		},
		domain.CategoryLegal: {
			"violation", "illegal", "lawsuit", "rights violated", "retaliation",
			"wrongful", "labor law",
		},
		domain.CategoryEthics: {
			"unethical", "fraud", "corruption", "misconduct", "breach", "confidential",
		},
	}
}

// Categories returns the taxonomy's categories in the canonical enumeration
// order so detection output is deterministic.
func (t Taxonomy) Categories() []domain.RedFlagCategory {
	ordered := make([]domain.RedFlagCategory, 0, len(t))
	for _, category := range domain.KnownCategories {
		if _, ok := t[category]; ok {
			ordered = append(ordered, category)
		}
	}
	return ordered
}

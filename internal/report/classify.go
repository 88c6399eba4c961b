package report

import "strings"

// Default business rule: which record types count toward contributions and
// which tag keywords exempt an otherwise-contributing record.
var (
	DefaultContributingTypes = []string{"WO", "PTR", "TR"}
	DefaultExemptionKeywords = []string{"atc-mon", "atc-fup", "atc-ign", "atc-sup"}
)

// Classifier decides whether a record counts toward net contributions.
type Classifier struct {
	contributing map[string]bool
	exemptions   []string
}

// NewClassifier builds a classifier from a set of contributing record types
// and exemption tag keywords. Type matching is case-insensitive; keyword
// matching is substring over the folded tag string.
func NewClassifier(types, keywords []string) Classifier {
	contributing := make(map[string]bool, len(types))
	for _, t := range types {
		contributing[strings.ToUpper(strings.TrimSpace(t))] = true
	}
	exemptions := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			exemptions = append(exemptions, k)
		}
	}
	return Classifier{contributing: contributing, exemptions: exemptions}
}

// DefaultClassifier returns the classifier with the production rule set.
func DefaultClassifier() Classifier {
	return NewClassifier(DefaultContributingTypes, DefaultExemptionKeywords)
}

// IsContribution reports whether the record is of a contributing type.
func (c Classifier) IsContribution(r Record) bool {
	return c.contributing[strings.ToUpper(strings.TrimSpace(r.Type))]
}

// IsExempt reports whether any exemption keyword appears in the record's
// tags. Exemption is meaningful only for contribution-typed records.
func (c Classifier) IsExempt(r Record) bool {
	for _, k := range c.exemptions {
		if strings.Contains(r.Tags, k) {
			return true
		}
	}
	return false
}

// CountsNet reports whether the record counts toward the net total: it must
// be of a contributing type and carry no exemption keyword.
func (c Classifier) CountsNet(r Record) bool {
	return c.IsContribution(r) && !c.IsExempt(r)
}

package scraper

import "strings"

// Classifier filters records by keyword presence in their description.
// Matching is case-sensitive substring search, mirroring how sellers write
// their commerce vocabulary in lowercase.
type Classifier struct {
	enabled  bool
	keywords []string
}

// NewClassifier builds a classifier. When enabled is false every record
// passes.
func NewClassifier(enabled bool, keywords []string) *Classifier {
	return &Classifier{enabled: enabled, keywords: keywords}
}

// Match reports whether a description contains at least one keyword.
func (c *Classifier) Match(description string) bool {
	if !c.enabled {
		return true
	}
	for _, kw := range c.keywords {
		if strings.Contains(description, kw) {
			return true
		}
	}
	return false
}

// Filter returns the records that pass classification, in input order.
// This runs before dedup so filtered-out records are never marked seen and
// cannot suppress a later matching post by the same identity.
func (c *Classifier) Filter(records []VideoRecord) []VideoRecord {
	if !c.enabled {
		return records
	}
	kept := make([]VideoRecord, 0, len(records))
	for _, r := range records {
		if c.Match(r.Description) {
			kept = append(kept, r)
		}
	}
	return kept
}

package history

import (
	"strings"

	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// MatchesSearch reports whether every whitespace-separated term of query
// appears in the record's title, transcript, or keywords. Matching is
// case-insensitive; an empty query matches everything.
func MatchesSearch(record entities.AnalysisRecord, query string) bool {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return true
	}

	title := strings.ToLower(record.ExecutiveSummary.Title)
	transcript := strings.ToLower(record.Transcript)

	for _, term := range terms {
		if strings.Contains(title, term) || strings.Contains(transcript, term) {
			continue
		}
		found := false
		for _, keyword := range record.Metadata.Keywords {
			if strings.Contains(strings.ToLower(keyword), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FilterRecords keeps the records matching query, preserving order
func FilterRecords(records []entities.AnalysisRecord, query string) []entities.AnalysisRecord {
	if strings.TrimSpace(query) == "" {
		return records
	}
	filtered := make([]entities.AnalysisRecord, 0, len(records))
	for _, record := range records {
		if MatchesSearch(record, query) {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gravity-notes/gravity/internal/domain/entities"
)

// Parser handles parsing and validation of LLM analysis responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseAnalysisJSON parses the JSON response from the model into an
// AnalysisResult. Unknown category/sentiment values are normalized to the
// catch-all buckets so downstream filters stay closed over the known sets.
func (p *Parser) ParseAnalysisJSON(jsonString string) (*entities.AnalysisResult, error) {
	// The model might wrap the document in markdown code blocks
	jsonString = extractJSON(jsonString)

	var result entities.AnalysisResult
	if err := json.Unmarshal([]byte(jsonString), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if result.ExecutiveSummary.Title == "" {
		return nil, fmt.Errorf("missing executive_summary.title in response")
	}

	if !entities.IsValidCategory(result.Metadata.Category) {
		result.Metadata.Category = entities.CategoryOther
	}
	if !entities.IsValidSentiment(result.Metadata.Sentiment) {
		result.Metadata.Sentiment = entities.SentimentNeutral
	}
	if result.Metadata.Keywords == nil {
		result.Metadata.Keywords = []string{}
	}

	return &result, nil
}

// ExtractActions converts analysis action items into Action entities
// attached to a session
func (p *Parser) ExtractActions(sessionID uuid.UUID, result *entities.AnalysisResult) []entities.Action {
	if result == nil {
		return nil
	}

	actions := make([]entities.Action, 0, len(result.Actions))
	for _, item := range result.Actions {
		action := entities.NewAction(sessionID, item.Description)
		action.Owner = item.Owner
		action.DueDate = item.DueDate
		actions = append(actions, *action)
	}
	return actions
}

// extractJSON strips markdown code fences from a model response
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

package entities

// AnalysisResult represents the structured output from the LLM analysis
type AnalysisResult struct {
	ExecutiveSummary ExecutiveSummary `json:"executive_summary"`
	KeyPoints        []KeyPoint       `json:"key_points"`
	MermaidDiagram   string           `json:"mermaid_diagram"`
	Actions          []ActionItem     `json:"actions"`
	Metadata         Metadata         `json:"metadata"`
}

// ExecutiveSummary is the headline block of an analysis
type ExecutiveSummary struct {
	Title        string `json:"title"`
	Participants string `json:"participants,omitempty"`
	Context      string `json:"context"`
	Summary      string `json:"summary"`
}

// KeyPoint represents a key point discussed in the recording
type KeyPoint struct {
	Text     string `json:"text"`
	IsUrgent bool   `json:"is_urgent"`
}

// ActionItem represents a task extracted from the transcript
type ActionItem struct {
	Description string `json:"description"`
	Owner       string `json:"owner"`
	DueDate     string `json:"due_date,omitempty"`
}

// Metadata carries classification of the recording
type Metadata struct {
	Keywords  []string `json:"keywords"`
	Category  string   `json:"category"`
	Sentiment string   `json:"sentiment"`
}

// Category constants
const (
	CategoryWork     = "Trabajo"
	CategoryPersonal = "Personal"
	CategoryLegal    = "Legal"
	CategoryIdeas    = "Ideas"
	CategoryOther    = "Otro"
)

// Sentiment constants
const (
	SentimentPositive = "Positivo"
	SentimentNeutral  = "Neutral"
	SentimentTense    = "Tenso"
	SentimentNegative = "Negativo"
)

// IsValidCategory checks a category value against the known set
func IsValidCategory(c string) bool {
	switch c {
	case CategoryWork, CategoryPersonal, CategoryLegal, CategoryIdeas, CategoryOther:
		return true
	}
	return false
}

// IsValidSentiment checks a sentiment value against the known set
func IsValidSentiment(s string) bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentTense, SentimentNegative:
		return true
	}
	return false
}

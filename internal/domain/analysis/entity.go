package analysis

import (
	"time"
)

// ID tipe untuk Analysis
type AnalysisID string

// Mode enum: which backend produced the result
type Mode string

const (
	ModeGemini Mode = "gemini"
	ModeOpenAI Mode = "openai"
	ModeDemo   Mode = "demo"
)

// Complexity value object
type Complexity struct {
	Time  string `json:"time"`
	Space string `json:"space"`
}

// Aggregate Root: Analysis
// Constructed fresh per request; never mutated after the handler returns it.
type Analysis struct {
	ID             AnalysisID `json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	Mode           Mode       `json:"mode"`
	Language       string     `json:"language,omitempty"`
	Score          int        `json:"score"`
	Review         string     `json:"review"`
	Suggestions    []string   `json:"suggestions"`
	SecurityIssues []string   `json:"securityIssues"`
	Complexity     Complexity `json:"complexity"`
	ImprovedCode   string     `json:"improvedCode"`
	Explanation    string     `json:"explanation"`
	ArchiveURL     string     `json:"archiveUrl,omitempty"`
	DurationMS     int64      `json:"durationMs"`
}

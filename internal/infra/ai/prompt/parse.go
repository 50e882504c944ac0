package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"coderefine/internal/domain/analysis"
)

// reviewPayload mirrors the schema requested by GetSystemPrompt.
type reviewPayload struct {
	Score          int      `json:"score"`
	Review         string   `json:"review"`
	Suggestions    []string `json:"suggestions"`
	SecurityIssues []string `json:"securityIssues"`
	Complexity     struct {
		Time  string `json:"time"`
		Space string `json:"space"`
	} `json:"complexity"`
	ImprovedCode string `json:"improvedCode"`
	Explanation  string `json:"explanation"`
}

// ParseReview extracts an Analysis from raw model output. Models do not
// always honor the JSON-only instruction, so after a direct unmarshal fails
// the widest {...} window is tried before giving up. Mode, ID and timestamps
// are left for the caller to fill.
func ParseReview(raw string) (*analysis.Analysis, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("empty model output")
	}

	var p reviewPayload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		window, ok := braceWindow(text)
		if !ok {
			return nil, fmt.Errorf("no JSON object in model output")
		}
		if err := json.Unmarshal([]byte(window), &p); err != nil {
			return nil, fmt.Errorf("failed to parse model output: %w", err)
		}
	}

	if strings.TrimSpace(p.Review) == "" {
		return nil, fmt.Errorf("model output missing review text")
	}

	a := &analysis.Analysis{
		Score:          clampScore(p.Score),
		Review:         strings.TrimSpace(p.Review),
		Suggestions:    normalizeList(p.Suggestions),
		SecurityIssues: normalizeList(p.SecurityIssues),
		Complexity: analysis.Complexity{
			Time:  stringOrDefault(p.Complexity.Time, "unknown"),
			Space: stringOrDefault(p.Complexity.Space, "unknown"),
		},
		ImprovedCode: strings.TrimSpace(p.ImprovedCode),
		Explanation:  strings.TrimSpace(p.Explanation),
	}
	return a, nil
}

// braceWindow returns the substring from the first '{' to the last '}'.
func braceWindow(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			out = append(out, strings.TrimSpace(it))
		}
	}
	if len(out) == 0 {
		return []string{"None found"}
	}
	return out
}

func stringOrDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

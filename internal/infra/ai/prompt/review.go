package prompt

import (
	"fmt"
	"strings"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are an expert code reviewer. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- "score" is an integer from 0 to 100 rating readability, efficiency and security.
- "review" summarizes the specific issues found in THIS code, not generic advice.
- "suggestions" lists concrete optimization suggestions specific to THIS code.
- "securityIssues" lists security risks found in THIS code; use ["None found"] when there are none.
- "complexity.time" and "complexity.space" are big-O estimates such as "O(n)".
- "improvedCode" contains ONLY the raw improved code, no markdown fences.
- "explanation" briefly summarizes what was changed and why.

Schema (example with empty values):
{
  "score": 0,
  "review": "<string>",
  "suggestions": ["<string>"],
  "securityIssues": ["<string>"],
  "complexity": {"time": "<string>", "space": "<string>"},
  "improvedCode": "<string>",
  "explanation": "<string>"
}`
}

// GetUserPrompt builds the user message around the submitted snippet.
func GetUserPrompt(code, language string) string {
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = "unknown (infer it from the code)"
	}
	return fmt.Sprintf("Language hint: %s\n\nAnalyze the following code and respond with the JSON per schema.\n\nCODE TO ANALYZE:\n%s", lang, code)
}

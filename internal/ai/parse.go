package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// extractJSON pulls the outermost JSON object out of a completion that
// may be wrapped in prose or markdown code fences.
func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", errors.New("no JSON object in response")
	}
	return s[start : end+1], nil
}

func parseGeneratedQuestion(raw string) (*GeneratedQuestion, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var q GeneratedQuestion
	if err := json.Unmarshal([]byte(jsonStr), &q); err != nil {
		return nil, fmt.Errorf("invalid question JSON: %w", err)
	}
	if q.Text == "" {
		return nil, errors.New("question text is empty")
	}
	if len(q.Options) != 4 {
		return nil, fmt.Errorf("expected 4 options, got %d", len(q.Options))
	}
	if q.CorrectIndex < 0 || q.CorrectIndex > 3 {
		return nil, fmt.Errorf("correct index %d out of range", q.CorrectIndex)
	}
	return &q, nil
}

func parseStatsComments(raw string) (overall, today string, err error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return "", "", err
	}
	var parsed struct {
		OverallComment string `json:"overallComment"`
		TodayComment   string `json:"todayComment"`
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return "", "", fmt.Errorf("invalid comments JSON: %w", err)
	}
	return parsed.OverallComment, parsed.TodayComment, nil
}

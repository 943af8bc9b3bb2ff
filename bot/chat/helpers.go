package chat

import (
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

var resetKeywords = []string{"처음부터", "처음으로", "취소", "리셋", "reset"}
var backKeywords = []string{"이전", "뒤로", "이전으로", "back"}

// IsResetKeyword reports whether the message is a universal restart command.
func IsResetKeyword(text string) bool {
	return containsKeyword(text, resetKeywords)
}

// IsBackKeyword reports whether the message is a universal back command.
func IsBackKeyword(text string) bool {
	return containsKeyword(text, backKeywords)
}

func containsKeyword(text string, keywords []string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, k := range keywords {
		if t == k {
			return true
		}
	}
	return false
}

// MatchChoice maps a raw answer onto one of the prompt's quick choices.
// Accepted forms: the choice value, the exact label, a 1-based number,
// or a label within levenshtein distance 1 (typo tolerance).
func MatchChoice(raw string, choices []Choice) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" || len(choices) == 0 {
		return "", false
	}

	if n, err := strconv.Atoi(text); err == nil {
		if n >= 1 && n <= len(choices) {
			return choices[n-1].Value, true
		}
		return "", false
	}

	lower := strings.ToLower(text)
	for _, c := range choices {
		if lower == strings.ToLower(c.Value) || lower == strings.ToLower(c.Label) {
			return c.Value, true
		}
	}

	for _, c := range choices {
		if levenshtein.ComputeDistance(lower, strings.ToLower(c.Label)) <= 1 {
			return c.Value, true
		}
	}

	return "", false
}

// YesNoChoices is the standard confirmation pair.
func YesNoChoices() []Choice {
	return []Choice{
		{Label: "네", Value: "yes"},
		{Label: "아니요", Value: "no"},
	}
}

// NumberedChoices renders a numbered text menu for channels without
// native quick replies.
func NumberedChoices(text string, choices []Choice) string {
	if len(choices) == 0 {
		return text
	}
	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n")
	for i, c := range choices {
		sb.WriteString("\n")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString(". ")
		sb.WriteString(c.Label)
	}
	return sb.String()
}

package service

import (
	"strings"

	"taskpulse/internal/domain"
)

const maxSuggestions = 6

// Suggest is the stateless keyword-matching suggestion stub. It inspects the
// prompt and the caller-supplied task list and returns up to six canned
// suggestions, most specific first.
func Suggest(prompt string, tasks []domain.Task) []string {
	p := strings.ToLower(prompt)

	incomplete := 0
	for _, t := range tasks {
		if t.Status != domain.StatusCompleted {
			incomplete++
		}
	}

	var suggestions []string
	if incomplete == 0 {
		suggestions = append(suggestions, "Start with a quick win: create one small task (15-30 min).")
	} else {
		suggestions = append(suggestions,
			"Pick 1 task and finish it before starting another.",
			"Split a big task into 3 smaller steps to reduce friction.",
		)
	}

	if strings.Contains(p, "study") || strings.Contains(p, "exam") {
		suggestions = append([]string{"Study sprint: 25 minutes focus + 5 minutes break (repeat twice)."}, suggestions...)
	}
	if strings.Contains(p, "deadline") || strings.Contains(p, "today") {
		suggestions = append([]string{"Deadline mode: do the highest-impact task first (no multitasking)."}, suggestions...)
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

package grading

import (
	"encoding/json"
	"strings"

	"github.com/Saravana-31/Form-Builder/internal/model"
)

// comprehension: exact, case-sensitive match against the single key.
type comprehensionStrategy struct{}

func (comprehensionStrategy) Grade(q model.Question, answer json.RawMessage) float64 {
	if q.CorrectAnswer == nil || q.CorrectAnswer.IsList() {
		return 0
	}
	var resp string
	if err := json.Unmarshal(answer, &resp); err != nil {
		return 0
	}
	if resp == q.CorrectAnswer.Single {
		return float64(q.Points)
	}
	return 0
}

// cloze: per-blank comparison ignoring case and surrounding whitespace,
// partial credit proportional to the blanks filled correctly.
type clozeStrategy struct{}

func (clozeStrategy) Grade(q model.Question, answer json.RawMessage) float64 {
	if q.CorrectAnswer == nil || !q.CorrectAnswer.IsList() {
		return 0
	}
	key := q.CorrectAnswer.Blanks
	if len(key) == 0 {
		return 0
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(answer, &elems); err != nil {
		return 0
	}

	correct := 0
	for i, want := range key {
		if i >= len(elems) {
			break
		}
		var got string
		if err := json.Unmarshal(elems[i], &got); err != nil {
			continue
		}
		if normalizeBlank(got) == normalizeBlank(want) {
			correct++
		}
	}
	return float64(q.Points) * float64(correct) / float64(len(key))
}

func normalizeBlank(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}

// categorize: any placement earns full points. There is no stored
// item-to-category key to check against.
type categorizeStrategy struct{}

func (categorizeStrategy) Grade(q model.Question, answer json.RawMessage) float64 {
	var buckets map[string]json.RawMessage
	if err := json.Unmarshal(answer, &buckets); err != nil {
		return 0
	}
	for _, raw := range buckets {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			continue
		}
		if len(items) > 0 {
			return float64(q.Points)
		}
	}
	return 0
}

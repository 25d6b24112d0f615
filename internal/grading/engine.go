package grading

import (
	"encoding/json"
	"math"

	"github.com/Saravana-31/Form-Builder/internal/model"
)

// QuestionResult is the outcome of grading one question.
type QuestionResult struct {
	QuestionID string             `json:"questionId"`
	Type       model.QuestionType `json:"type"`
	Answered   bool               `json:"answered"`
	Earned     float64            `json:"earned"`
	Points     int                `json:"points"`
}

// Result is the outcome of grading a whole submission.
type Result struct {
	TotalScore int              `json:"score"`
	MaxScore   int              `json:"maxScore"`
	Questions  []QuestionResult `json:"questions"`
}

// Strategy grades a single answered question. It returns the earned points
// and must never fail: answers it cannot interpret earn nothing.
type Strategy interface {
	Grade(q model.Question, answer json.RawMessage) float64
}

// Grader scores a submission against a form's answer keys.
type Grader interface {
	Score(questions []model.Question, answers map[string]json.RawMessage) Result
}

type defaultGrader struct {
	strategies map[model.QuestionType]Strategy
}

// NewDefaultGrader installs the built-in strategies for every question type.
func NewDefaultGrader() Grader {
	return &defaultGrader{
		strategies: map[model.QuestionType]Strategy{
			model.QuestionComprehension: comprehensionStrategy{},
			model.QuestionCloze:         clozeStrategy{},
			model.QuestionCategorize:    categorizeStrategy{},
		},
	}
}

func (g *defaultGrader) Score(questions []model.Question, answers map[string]json.RawMessage) Result {
	res := Result{Questions: make([]QuestionResult, 0, len(questions))}
	total := 0.0

	for _, q := range questions {
		res.MaxScore += q.Points
		qr := QuestionResult{QuestionID: q.ID, Type: q.Type, Points: q.Points}

		answer, ok := answers[q.ID]
		if !ok || unanswered(answer) {
			res.Questions = append(res.Questions, qr)
			continue
		}
		qr.Answered = true

		if s, ok := g.strategies[q.Type]; ok {
			earned := s.Grade(q, answer)
			if math.IsNaN(earned) || math.IsInf(earned, 0) {
				earned = 0
			}
			qr.Earned = earned
			total += earned
		}
		res.Questions = append(res.Questions, qr)
	}

	res.TotalScore = int(math.Round(total))
	return res
}

// unanswered treats JSON falsy values (null, "", false, 0) as no answer.
func unanswered(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	}
	return false
}

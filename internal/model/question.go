package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type QuestionType string

const (
	QuestionCategorize    QuestionType = "categorize"
	QuestionCloze         QuestionType = "cloze"
	QuestionComprehension QuestionType = "comprehension"
)

// BlankMarker marks one blank inside a cloze prompt.
const BlankMarker = "_____"

const DefaultPoints = 1

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionCategorize, QuestionCloze, QuestionComprehension:
		return true
	}
	return false
}

// AnswerKey holds a question's stored correct answer. Comprehension questions
// keep a single string, cloze questions keep one string per blank.
type AnswerKey struct {
	Single string
	Blanks []string
	list   bool
}

func SingleAnswer(answer string) *AnswerKey {
	return &AnswerKey{Single: answer}
}

func BlankAnswers(answers ...string) *AnswerKey {
	if answers == nil {
		answers = []string{}
	}
	return &AnswerKey{Blanks: answers, list: true}
}

func (k AnswerKey) IsList() bool {
	return k.list
}

func (k AnswerKey) MarshalJSON() ([]byte, error) {
	if k.list {
		if k.Blanks == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(k.Blanks)
	}
	return json.Marshal(k.Single)
}

func (k *AnswerKey) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*k = AnswerKey{}
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*k = AnswerKey{Single: s}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(trimmed, &elems); err != nil {
			return err
		}
		blanks := make([]string, len(elems))
		for i, e := range elems {
			var s string
			if err := json.Unmarshal(e, &s); err != nil {
				// numbers and booleans keep their literal text
				if !bytes.Equal(e, []byte("null")) {
					s = string(e)
				}
			}
			blanks[i] = s
		}
		*k = AnswerKey{Blanks: blanks, list: true}
	default:
		return errors.New("correctAnswer must be a string or a list of strings")
	}
	return nil
}

func (k AnswerKey) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if k.list {
		blanks := k.Blanks
		if blanks == nil {
			blanks = []string{}
		}
		return bson.MarshalValue(blanks)
	}
	return bson.MarshalValue(k.Single)
}

func (k *AnswerKey) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Array:
		var blanks []string
		if err := raw.Unmarshal(&blanks); err != nil {
			return err
		}
		*k = AnswerKey{Blanks: blanks, list: true}
	case bsontype.String:
		*k = AnswerKey{Single: raw.StringValue()}
	case bsontype.Null, bsontype.Undefined:
		*k = AnswerKey{}
	default:
		return fmt.Errorf("correctAnswer: unsupported bson type %s", t)
	}
	return nil
}

// Question is one entry of a form. Which optional fields are meaningful
// depends on Type.
// swagger:model Question
type Question struct {
	ID            string       `json:"id" bson:"id"`
	Type          QuestionType `json:"type" bson:"type"`
	Question      string       `json:"question" bson:"question"`
	Image         string       `json:"image,omitempty" bson:"image,omitempty"`
	Options       []string     `json:"options,omitempty" bson:"options,omitempty"`
	Categories    []string     `json:"categories,omitempty" bson:"categories,omitempty"`
	Items         []string     `json:"items,omitempty" bson:"items,omitempty"`
	CorrectAnswer *AnswerKey   `json:"correctAnswer,omitempty" bson:"correctAnswer,omitempty"`
	Points        int          `json:"points" bson:"points"`
}

func NewQuestionID() string {
	return GenerateUUID()
}

// NewQuestion builds a question of the given type with the editor's default
// content and a fresh identifier.
func NewQuestion(t QuestionType) Question {
	q := Question{
		ID:     NewQuestionID(),
		Type:   t,
		Points: DefaultPoints,
	}

	switch t {
	case QuestionCategorize:
		q.Categories = []string{"Category 1", "Category 2"}
		q.Items = []string{"Item 1", "Item 2"}
	case QuestionCloze:
		q.CorrectAnswer = BlankAnswers("")
	case QuestionComprehension:
		q.Options = []string{"Option 1", "Option 2", "Option 3", "Option 4"}
		q.CorrectAnswer = SingleAnswer("")
	}
	return q
}

// BlankCount returns how many blank markers the prompt contains.
func (q Question) BlankCount() int {
	return strings.Count(q.Question, BlankMarker)
}

// Validate reports content problems worth showing to the author. None of them
// block saving a form.
func (q Question) Validate() []string {
	var problems []string
	if !q.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown question type %q", q.Type))
	}
	if q.Points <= 0 {
		problems = append(problems, "points must be positive")
	}

	switch q.Type {
	case QuestionCloze:
		if q.CorrectAnswer == nil || !q.CorrectAnswer.IsList() {
			problems = append(problems, "cloze answers must be a list")
			break
		}
		if n := q.BlankCount(); n != len(q.CorrectAnswer.Blanks) {
			problems = append(problems, fmt.Sprintf("prompt has %d blanks but %d answers", n, len(q.CorrectAnswer.Blanks)))
		}
	case QuestionComprehension:
		if q.CorrectAnswer == nil || q.CorrectAnswer.IsList() {
			problems = append(problems, "comprehension answer must be a single option")
			break
		}
		if !slices.Contains(q.Options, q.CorrectAnswer.Single) {
			problems = append(problems, "correct answer is not one of the options")
		}
	case QuestionCategorize:
		if len(q.Categories) == 0 {
			problems = append(problems, "categorize question has no categories")
		}
	}
	return problems
}

// Questions is the ordered question list of a form, stored as a JSON column.
type Questions []Question

func (qs *Questions) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*qs = Questions{}
		return nil
	default:
		return errors.New("failed to unmarshal questions column")
	}
	return json.Unmarshal(data, qs)
}

func (qs Questions) Value() (driver.Value, error) {
	if qs == nil {
		return "[]", nil
	}
	b, err := json.Marshal(qs)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Problems collects Validate output keyed by question id.
func (qs Questions) Problems() map[string][]string {
	out := make(map[string][]string)
	for _, q := range qs {
		if p := q.Validate(); len(p) > 0 {
			out[q.ID] = p
		}
	}
	return out
}

// DuplicateIDs lists question identifiers used more than once.
func (qs Questions) DuplicateIDs() []string {
	seen := make(map[string]int, len(qs))
	var dups []string
	for _, q := range qs {
		seen[q.ID]++
		if seen[q.ID] == 2 {
			dups = append(dups, q.ID)
		}
	}
	return dups
}

func (qs Questions) TotalPoints() int {
	total := 0
	for _, q := range qs {
		total += q.Points
	}
	return total
}

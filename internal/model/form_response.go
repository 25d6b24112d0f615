package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// AnswerPayload is what a respondent submits: answers keyed by question id
// plus the grading summary.
// swagger:model AnswerPayload
type AnswerPayload struct {
	Responses   map[string]json.RawMessage `json:"responses"`
	Score       int                        `json:"score"`
	MaxScore    int                        `json:"maxScore"`
	TimeSpent   int                        `json:"timeSpent"` // seconds
	SubmittedAt string                     `json:"submittedAt,omitempty"`
}

func (p *AnswerPayload) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*p = AnswerPayload{}
		return nil
	default:
		return errors.New("failed to unmarshal answers column")
	}
	return json.Unmarshal(data, p)
}

func (p AnswerPayload) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Percentage is score over max score, rounded; 0 when nothing was gradable.
func (p AnswerPayload) Percentage() int {
	if p.MaxScore <= 0 {
		return 0
	}
	return int(float64(p.Score)/float64(p.MaxScore)*100 + 0.5)
}

// FormResponse is one graded submission. It is never modified after insert.
// swagger:model FormResponse
type FormResponse struct {
	ID          string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FormID      string        `gorm:"index;size:191;not null" json:"form_id"`
	Answers     AnswerPayload `gorm:"type:json" json:"answers"`
	SubmittedAt time.Time     `gorm:"index" json:"submitted_at"`
}

func (FormResponse) TableName() string {
	return "form_responses"
}

package editor

import (
	"errors"
	"strings"

	"github.com/Saravana-31/Form-Builder/internal/model"
)

var (
	ErrTitleRequired = errors.New("please enter a form title")
	ErrIndexRange    = errors.New("question index out of range")
)

// Session is a single author's unsaved editing state. It is not safe for
// concurrent use.
type Session struct {
	Title       string
	Description string
	Questions   model.Questions
	Selected    int
}

func NewSession(title, description string, questions model.Questions) *Session {
	qs := make(model.Questions, len(questions))
	copy(qs, questions)
	return &Session{
		Title:       title,
		Description: description,
		Questions:   qs,
		Selected:    NoSelection,
	}
}

// Add appends a default question of type t and selects it.
func (s *Session) Add(t model.QuestionType) model.Question {
	q := model.NewQuestion(t)
	s.Questions = append(s.Questions, q)
	s.Selected = len(s.Questions) - 1
	return q
}

// Update replaces the question at index i.
func (s *Session) Update(i int, q model.Question) error {
	if i < 0 || i >= len(s.Questions) {
		return ErrIndexRange
	}
	s.Questions[i] = q
	return nil
}

// Delete removes the question at index i and clears the selection.
func (s *Session) Delete(i int) error {
	if i < 0 || i >= len(s.Questions) {
		return ErrIndexRange
	}
	s.Questions = append(s.Questions[:i:i], s.Questions[i+1:]...)
	s.Selected = NoSelection
	return nil
}

// Select marks question i as selected; NoSelection clears it.
func (s *Session) Select(i int) error {
	if i != NoSelection && (i < 0 || i >= len(s.Questions)) {
		return ErrIndexRange
	}
	s.Selected = i
	return nil
}

// MoveTo moves the question at from to position to and keeps the selection
// on the question it pointed at.
func (s *Session) MoveTo(from, to int) error {
	if from < 0 || from >= len(s.Questions) || to < 0 || to >= len(s.Questions) {
		return ErrIndexRange
	}
	if from == to {
		return nil
	}
	s.Questions = Move(s.Questions, from, to)
	s.Selected = RemapSelection(s.Selected, from, to)
	return nil
}

// MoveByID handles a drag that drops question activeID onto overID. It
// reports whether anything moved.
func (s *Session) MoveByID(activeID, overID string) bool {
	if activeID == overID {
		return false
	}
	from, to := IndexOf(s.Questions, activeID), IndexOf(s.Questions, overID)
	if from < 0 || to < 0 {
		return false
	}
	return s.MoveTo(from, to) == nil
}

// SelectedQuestion returns the selected question, if any.
func (s *Session) SelectedQuestion() (model.Question, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Questions) {
		return model.Question{}, false
	}
	return s.Questions[s.Selected], true
}

func (s *Session) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrTitleRequired
	}
	return nil
}

// Draft returns the content to save.
func (s *Session) Draft() model.FormContent {
	qs := make(model.Questions, len(s.Questions))
	copy(qs, s.Questions)
	return model.FormContent{
		Title:       s.Title,
		Description: s.Description,
		Questions:   qs,
	}
}

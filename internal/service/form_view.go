package service

import (
	"time"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/jinzhu/copier"
)

// FormView is the client representation of a form. ID is the public
// identifier, so links built from it resolve through either lookup.
type FormView struct {
	ID            string          `json:"id" copier:"-"`
	SystemID      string          `json:"_id" copier:"-"`
	Slug          string          `json:"slug,omitempty" copier:"-"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Questions     model.Questions `json:"questions"`
	QuestionCount int             `json:"question_count" copier:"-"`
	TotalPoints   int             `json:"total_points" copier:"-"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func NewFormView(f *model.Form) FormView {
	var v FormView
	_ = copier.Copy(&v, f)
	v.ID = f.PublicID()
	v.SystemID = f.ID
	if f.Slug != nil {
		v.Slug = *f.Slug
	}
	if v.Questions == nil {
		v.Questions = model.Questions{}
	}
	v.QuestionCount = len(f.Questions)
	v.TotalPoints = f.Questions.TotalPoints()
	return v
}

func NewFormViews(forms []model.Form) []FormView {
	out := make([]FormView, 0, len(forms))
	for i := range forms {
		out = append(out, NewFormView(&forms[i]))
	}
	return out
}

package repository

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/util"
)

// MemoryFormRepository keeps forms in process memory. It backs the
// "memory" database driver and the service tests.
type MemoryFormRepository struct {
	mu    sync.RWMutex
	forms map[string]model.Form
}

func NewMemoryFormRepository() *MemoryFormRepository {
	return &MemoryFormRepository{forms: make(map[string]model.Form)}
}

func cloneForm(f model.Form) model.Form {
	qs := make(model.Questions, len(f.Questions))
	copy(qs, f.Questions)
	f.Questions = qs
	if f.Slug != nil {
		s := *f.Slug
		f.Slug = &s
	}
	return f
}

// lookup must be called with mu held.
func (r *MemoryFormRepository) lookup(ref model.FormRef) (string, bool) {
	if ref.Kind == model.RefSystem {
		_, ok := r.forms[ref.Value]
		return ref.Value, ok
	}
	for id, f := range r.forms {
		if f.Slug != nil && *f.Slug == ref.Value {
			return id, true
		}
	}
	return "", false
}

func (r *MemoryFormRepository) Create(ctx context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if form.Slug != nil {
		if _, taken := r.lookup(model.SlugRef(*form.Slug)); taken {
			return util.ErrSlugTaken
		}
	}
	if form.ID == "" {
		form.ID = model.GenerateUUID()
	}
	now := time.Now()
	if form.CreatedAt.IsZero() {
		form.CreatedAt = now
	}
	if form.UpdatedAt.IsZero() {
		form.UpdatedAt = form.CreatedAt
	}
	if form.Questions == nil {
		form.Questions = model.Questions{}
	}
	r.forms[form.ID] = cloneForm(*form)
	return nil
}

func (r *MemoryFormRepository) Find(ctx context.Context, ref model.FormRef) (*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.lookup(ref)
	if !ok {
		return nil, util.ErrFormNotFound
	}
	f := cloneForm(r.forms[id])
	return &f, nil
}

func (r *MemoryFormRepository) Update(ctx context.Context, ref model.FormRef, content model.FormContent, at time.Time) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.lookup(ref)
	if !ok {
		return nil, util.ErrFormNotFound
	}
	f := r.forms[id]
	f.Title = content.Title
	f.Description = content.Description
	f.Questions = content.Questions
	if f.Questions == nil {
		f.Questions = model.Questions{}
	}
	f.UpdatedAt = at
	r.forms[id] = cloneForm(f)

	out := cloneForm(f)
	return &out, nil
}

func (r *MemoryFormRepository) Delete(ctx context.Context, ref model.FormRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.lookup(ref)
	if !ok {
		return util.ErrFormNotFound
	}
	delete(r.forms, id)
	return nil
}

func (r *MemoryFormRepository) List(ctx context.Context) ([]model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.Form, 0, len(r.forms))
	for _, f := range r.forms {
		out = append(out, cloneForm(f))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type MemoryResponseRepository struct {
	mu        sync.RWMutex
	responses []model.FormResponse
}

func NewMemoryResponseRepository() *MemoryResponseRepository {
	return &MemoryResponseRepository{}
}

// cloneResponse detaches the answers map so stored responses cannot change
// after they are recorded.
func cloneResponse(r model.FormResponse) model.FormResponse {
	if r.Answers.Responses != nil {
		answers := make(map[string]json.RawMessage, len(r.Answers.Responses))
		for k, v := range r.Answers.Responses {
			answers[k] = append(json.RawMessage(nil), v...)
		}
		r.Answers.Responses = answers
	}
	return r
}

func (r *MemoryResponseRepository) Create(ctx context.Context, resp *model.FormResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if resp.ID == "" {
		resp.ID = model.GenerateUUID()
	}
	r.responses = append(r.responses, cloneResponse(*resp))
	return nil
}

func (r *MemoryResponseRepository) List(ctx context.Context, formID string) ([]model.FormResponse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.FormResponse, 0, len(r.responses))
	for i := len(r.responses) - 1; i >= 0; i-- {
		if formID == "" || r.responses[i].FormID == formID {
			out = append(out, cloneResponse(r.responses[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

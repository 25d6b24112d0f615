package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/editor"
	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/repository"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
	"github.com/Saravana-31/Form-Builder/pkg/monitoring"
	"github.com/Saravana-31/Form-Builder/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// FormRequest is the body of create and update calls. Title stays raw so a
// non-string title can be reported as a validation failure.
type FormRequest struct {
	Title       json.RawMessage `json:"title" swaggertype:"string"`
	Description string          `json:"description"`
	Questions   json.RawMessage `json:"questions" swaggertype:"array,object"`
	Slug        string          `json:"slug,omitempty"`
}

type FormService struct {
	Repo repository.FormRepository
	now  func() time.Time
}

func NewFormService(repo repository.FormRepository) *FormService {
	return &FormService{Repo: repo, now: time.Now}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, util.ErrFormNotFound):
		return "not_found"
	case util.IsValidation(err):
		return "invalid"
	case util.IsStorage(err):
		return "storage_error"
	}
	return "error"
}

func observe(op string, err error) {
	monitoring.FormOperations.WithLabelValues(op, outcome(err)).Inc()
}

// resolve runs fn against each interpretation of id, slug first, and stops
// at the first one that is not a miss.
func resolve[T any](id string, fn func(model.FormRef) (T, error)) (T, error) {
	var zero T
	for _, ref := range model.CandidateRefs(id) {
		v, err := fn(ref)
		if errors.Is(err, util.ErrFormNotFound) {
			continue
		}
		return v, err
	}
	return zero, util.ErrFormNotFound
}

func parseTitle(raw json.RawMessage) (string, error) {
	var title string
	if len(raw) == 0 || json.Unmarshal(raw, &title) != nil {
		return "", util.NewValidationError("", "Title is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return "", util.NewValidationError("", "Title is required")
	}
	return title, nil
}

// parseQuestions accepts a JSON array of questions. Anything that is not an
// array yields an empty list.
func parseQuestions(raw json.RawMessage) (model.Questions, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return model.Questions{}, nil
	}
	var qs model.Questions
	if err := json.Unmarshal(raw, &qs); err != nil {
		return nil, util.NewValidationError("questions", err.Error())
	}
	if qs == nil {
		qs = model.Questions{}
	}
	return qs, nil
}

func (s *FormService) content(req FormRequest) (model.FormContent, error) {
	title, err := parseTitle(req.Title)
	if err != nil {
		return model.FormContent{}, err
	}
	questions, err := parseQuestions(req.Questions)
	if err != nil {
		return model.FormContent{}, err
	}
	if dups := questions.DuplicateIDs(); len(dups) > 0 {
		logger.Log.Warn("Form has duplicate question ids", zap.Strings("question_ids", dups))
	}
	for id, problems := range questions.Problems() {
		logger.Log.Debug("Saving question with warnings", zap.String("question_id", id), zap.Strings("problems", problems))
	}
	return model.FormContent{
		Title:       title,
		Description: req.Description,
		Questions:   questions,
	}, nil
}

func (s *FormService) Create(ctx context.Context, req FormRequest) (f *model.Form, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "FormService.Create")
	defer span.End()
	defer func() { observe("create", err) }()

	content, err := s.content(req)
	if err != nil {
		return nil, err
	}

	now := s.now()
	form := &model.Form{
		Title:       content.Title,
		Description: content.Description,
		Questions:   content.Questions,
	}
	form.CreatedAt = now
	form.UpdatedAt = now

	if slug := strings.TrimSpace(req.Slug); slug != "" {
		if err := model.ValidateSlug(slug); err != nil {
			return nil, util.NewValidationError("slug", err.Error())
		}
		form.Slug = &slug
	}

	if err := s.Repo.Create(ctx, form); err != nil {
		if errors.Is(err, util.ErrSlugTaken) {
			return nil, util.NewValidationError("slug", err.Error())
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("form.id", form.ID))
	logger.Log.Info("Form created", zap.String("form_id", form.ID), zap.String("public_id", form.PublicID()))
	return form, nil
}

func (s *FormService) Get(ctx context.Context, id string) (f *model.Form, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "FormService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("form.ref", id))
	defer func() { observe("get", err) }()

	return resolve(id, func(ref model.FormRef) (*model.Form, error) {
		return s.Repo.Find(ctx, ref)
	})
}

// Update replaces title, description and questions. Identifier and creation
// time never change.
func (s *FormService) Update(ctx context.Context, id string, req FormRequest) (f *model.Form, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "FormService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("form.ref", id))
	defer func() { observe("update", err) }()

	content, err := s.content(req)
	if err != nil {
		return nil, err
	}
	at := s.now()
	return resolve(id, func(ref model.FormRef) (*model.Form, error) {
		return s.Repo.Update(ctx, ref, content, at)
	})
}

func (s *FormService) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.Tracer.Start(ctx, "FormService.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("form.ref", id))
	defer func() { observe("delete", err) }()

	_, err = resolve(id, func(ref model.FormRef) (struct{}, error) {
		return struct{}{}, s.Repo.Delete(ctx, ref)
	})
	if err == nil {
		logger.Log.Info("Form deleted", zap.String("form_ref", id))
	}
	return err
}

// List returns every form, newest first.
func (s *FormService) List(ctx context.Context) (forms []model.Form, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "FormService.List")
	defer span.End()
	defer func() { observe("list", err) }()

	return s.Repo.List(ctx)
}

// MoveQuestion applies a drag in the editor: question activeID is dropped
// onto the position of overID and the new order is saved. Dropping a
// question onto itself changes nothing.
func (s *FormService) MoveQuestion(ctx context.Context, id, activeID, overID string) (f *model.Form, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "FormService.MoveQuestion")
	defer span.End()
	defer func() { observe("move_question", err) }()

	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, qid := range []string{activeID, overID} {
		if editor.IndexOf(form.Questions, qid) < 0 {
			return nil, util.NewValidationError("question", "unknown question id "+strconv.Quote(qid))
		}
	}

	session := editor.NewSession(form.Title, form.Description, form.Questions)
	if !session.MoveByID(activeID, overID) {
		return form, nil
	}
	if err := session.Validate(); err != nil {
		return nil, util.NewValidationError("title", err.Error())
	}
	return s.Repo.Update(ctx, model.SystemRef(form.ID), session.Draft(), s.now())
}

// Duplicate stores a copy of the form titled "<title> (Copy)". The copy gets
// fresh identifiers and timestamps and no slug.
func (s *FormService) Duplicate(ctx context.Context, id string) (f *model.Form, err error) {
	ctx, span := tracing.Tracer.Start(ctx, "FormService.Duplicate")
	defer span.End()
	defer func() { observe("duplicate", err) }()

	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	questions := make(model.Questions, len(src.Questions))
	copy(questions, src.Questions)
	form := &model.Form{
		Title:       src.Title + " (Copy)",
		Description: src.Description,
		Questions:   questions,
	}
	form.CreatedAt = now
	form.UpdatedAt = now

	if err := s.Repo.Create(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

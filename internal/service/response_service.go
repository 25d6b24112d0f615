package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/grading"
	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/repository"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
	"github.com/Saravana-31/Form-Builder/pkg/monitoring"
	"github.com/Saravana-31/Form-Builder/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// isoMillis is the timestamp layout browsers produce with toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type SubmitRequest struct {
	FormID  string              `json:"form_id"`
	Answers model.AnswerPayload `json:"answers"`
}

type ScoreRequest struct {
	Responses map[string]json.RawMessage `json:"responses"`
}

type ResponseService struct {
	Forms  *FormService
	Repo   repository.ResponseRepository
	Grader grading.Grader
	// RequireForm rejects responses whose form cannot be resolved.
	RequireForm bool
	now         func() time.Time
}

func NewResponseService(forms *FormService, repo repository.ResponseRepository, grader grading.Grader, requireForm bool) *ResponseService {
	return &ResponseService{
		Forms:       forms,
		Repo:        repo,
		Grader:      grader,
		RequireForm: requireForm,
		now:         time.Now,
	}
}

func requireFormID(formID string) (string, error) {
	formID = strings.TrimSpace(formID)
	if formID == "" {
		return "", util.NewValidationError("form_id", "is required")
	}
	return formID, nil
}

// Record stores payload as sent. Without RequireForm the form is not looked
// up, so responses may reference forms that do not exist.
func (s *ResponseService) Record(ctx context.Context, formID string, payload model.AnswerPayload) (*model.FormResponse, error) {
	formID, err := requireFormID(formID)
	if err != nil {
		return nil, err
	}
	if s.RequireForm {
		form, err := s.Forms.Get(ctx, formID)
		if err != nil {
			return nil, err
		}
		formID = form.PublicID()
	}
	return s.record(ctx, formID, payload)
}

func (s *ResponseService) record(ctx context.Context, formID string, payload model.AnswerPayload) (*model.FormResponse, error) {
	now := s.now()
	if payload.Responses == nil {
		payload.Responses = map[string]json.RawMessage{}
	}
	if payload.SubmittedAt == "" {
		payload.SubmittedAt = now.UTC().Format(isoMillis)
	}
	resp := &model.FormResponse{
		FormID:      formID,
		Answers:     payload,
		SubmittedAt: now,
	}
	if err := s.Repo.Create(ctx, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Submit is the respondent flow. When the form resolves, the answers are
// graded here and the submitted score fields are overwritten.
func (s *ResponseService) Submit(ctx context.Context, req SubmitRequest) (*model.FormResponse, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ResponseService.Submit")
	defer span.End()

	formID, err := requireFormID(req.FormID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("form.ref", formID))

	payload := req.Answers
	form, err := s.Forms.Get(ctx, formID)
	var resp *model.FormResponse
	switch {
	case err == nil:
		result := s.Grader.Score(form.Questions, payload.Responses)
		payload.Score = result.TotalScore
		payload.MaxScore = result.MaxScore
		monitoring.ScorePercent.Observe(float64(payload.Percentage()))
		resp, err = s.record(ctx, form.PublicID(), payload)
	case errors.Is(err, util.ErrFormNotFound) && !s.RequireForm:
		logger.Log.Warn("Recording response for unknown form", zap.String("form_id", formID))
		resp, err = s.Record(ctx, formID, payload)
	}
	if err != nil {
		return nil, err
	}

	monitoring.ResponsesRecorded.WithLabelValues(strconv.FormatBool(form != nil)).Inc()
	logger.Log.Info("Response recorded",
		zap.String("response_id", resp.ID),
		zap.String("form_id", resp.FormID),
		zap.Int("score", payload.Score),
		zap.Int("max_score", payload.MaxScore),
	)
	return resp, nil
}

// Score grades answers against a form without storing anything.
func (s *ResponseService) Score(ctx context.Context, formID string, req ScoreRequest) (grading.Result, error) {
	form, err := s.Forms.Get(ctx, formID)
	if err != nil {
		return grading.Result{}, err
	}
	return s.Grader.Score(form.Questions, req.Responses), nil
}

// List returns responses for formID (all when empty), most recent first.
// Responses are stored under the form's public id, so a system id is
// resolved first. An id that matches no form is used as given.
func (s *ResponseService) List(ctx context.Context, formID string) ([]model.FormResponse, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ResponseService.List")
	defer span.End()

	formID = strings.TrimSpace(formID)
	if formID != "" {
		form, err := s.Forms.Get(ctx, formID)
		switch {
		case err == nil:
			formID = form.PublicID()
		case !errors.Is(err, util.ErrFormNotFound):
			return nil, err
		}
	}
	return s.Repo.List(ctx, formID)
}

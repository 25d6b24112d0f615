package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/repository"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// countingRepo records writes so tests can assert that nothing was stored.
type countingRepo struct {
	repository.FormRepository
	creates int
	finds   []model.FormRef
}

func (r *countingRepo) Create(ctx context.Context, f *model.Form) error {
	r.creates++
	return r.FormRepository.Create(ctx, f)
}

func (r *countingRepo) Find(ctx context.Context, ref model.FormRef) (*model.Form, error) {
	r.finds = append(r.finds, ref)
	return r.FormRepository.Find(ctx, ref)
}

// failingRepo fails every call with a storage error.
type failingRepo struct{}

var errDown = errors.New("connection refused")

func (failingRepo) Create(context.Context, *model.Form) error { return util.WrapStorage("create", errDown) }
func (failingRepo) Find(context.Context, model.FormRef) (*model.Form, error) {
	return nil, util.WrapStorage("find", errDown)
}
func (failingRepo) Update(context.Context, model.FormRef, model.FormContent, time.Time) (*model.Form, error) {
	return nil, util.WrapStorage("update", errDown)
}
func (failingRepo) Delete(context.Context, model.FormRef) error { return util.WrapStorage("delete", errDown) }
func (failingRepo) List(context.Context) ([]model.Form, error) {
	return nil, util.WrapStorage("list", errDown)
}

func newFormService() (*FormService, *countingRepo) {
	repo := &countingRepo{FormRepository: repository.NewMemoryFormRepository()}
	return NewFormService(repo), repo
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestFormService_CreateRejectsBadTitle(t *testing.T) {
	tests := []struct {
		name  string
		title json.RawMessage
	}{
		{"missing", nil},
		{"empty", raw(`""`)},
		{"whitespace", raw(`"   "`)},
		{"number", raw(`42`)},
		{"null", raw(`null`)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newFormService()
			_, err := svc.Create(context.Background(), FormRequest{Title: tc.title})
			if !util.IsValidation(err) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
			if repo.creates != 0 {
				t.Fatal("invalid form was written")
			}
		})
	}
}

func TestFormService_CreateDefaults(t *testing.T) {
	svc, _ := newFormService()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	f, err := svc.Create(context.Background(), FormRequest{Title: raw(`" Quiz "`), Questions: raw(`{"not":"a list"}`)})
	if err != nil {
		t.Fatal(err)
	}
	if f.Title != "Quiz" || f.Description != "" || f.Questions == nil || len(f.Questions) != 0 {
		t.Fatalf("form = %+v", f)
	}
	if !f.CreatedAt.Equal(fixed) || !f.UpdatedAt.Equal(fixed) || f.ID == "" {
		t.Fatalf("identity/timestamps not assigned: %+v", f)
	}
}

func TestFormService_CreateKeepsQuestionOrder(t *testing.T) {
	svc, _ := newFormService()
	body := `[
		{"id":"q2","type":"cloze","question":"_____ is the capital","correctAnswer":["Paris"],"points":2},
		{"id":"q1","type":"comprehension","question":"Pick","options":["a","b"],"correctAnswer":"a","points":1}
	]`
	f, err := svc.Create(context.Background(), FormRequest{Title: raw(`"Quiz"`), Questions: raw(body)})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Questions) != 2 || f.Questions[0].ID != "q2" || f.Questions[1].ID != "q1" {
		t.Fatalf("questions = %+v", f.Questions)
	}

	if _, err := svc.Create(context.Background(), FormRequest{Title: raw(`"Quiz"`), Questions: raw(`[{"correctAnswer":{}}]`)}); !util.IsValidation(err) {
		t.Fatalf("malformed question err = %v", err)
	}
}

func TestFormService_Slug(t *testing.T) {
	svc, _ := newFormService()
	ctx := context.Background()

	f, err := svc.Create(ctx, FormRequest{Title: raw(`"Quiz"`), Slug: "geo-quiz"})
	if err != nil {
		t.Fatal(err)
	}
	if f.PublicID() != "geo-quiz" {
		t.Fatalf("PublicID = %q", f.PublicID())
	}
	if _, err := svc.Create(ctx, FormRequest{Title: raw(`"Again"`), Slug: "geo-quiz"}); !util.IsValidation(err) {
		t.Fatalf("duplicate slug err = %v", err)
	}
	if _, err := svc.Create(ctx, FormRequest{Title: raw(`"Bad"`), Slug: "Not A Slug"}); !util.IsValidation(err) {
		t.Fatalf("invalid slug err = %v", err)
	}
}

func TestFormService_GetResolvesSlugThenSystemID(t *testing.T) {
	svc, repo := newFormService()
	ctx := context.Background()
	withSlug, _ := svc.Create(ctx, FormRequest{Title: raw(`"A"`), Slug: "alpha"})
	plain, _ := svc.Create(ctx, FormRequest{Title: raw(`"B"`)})

	repo.finds = nil
	got, err := svc.Get(ctx, "alpha")
	if err != nil || got.ID != withSlug.ID {
		t.Fatalf("Get(slug) = %+v, %v", got, err)
	}
	if len(repo.finds) != 1 || repo.finds[0].Kind != model.RefSlug {
		t.Fatalf("slug lookup order = %v", repo.finds)
	}

	repo.finds = nil
	got, err = svc.Get(ctx, plain.ID)
	if err != nil || got.ID != plain.ID {
		t.Fatalf("Get(system) = %+v, %v", got, err)
	}
	if len(repo.finds) != 2 || repo.finds[0].Kind != model.RefSlug || repo.finds[1].Kind != model.RefSystem {
		t.Fatalf("fallback order = %v", repo.finds)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, util.ErrFormNotFound) {
		t.Fatalf("Get(missing) err = %v", err)
	}
	if _, err := svc.Get(ctx, "  "); !errors.Is(err, util.ErrFormNotFound) {
		t.Fatalf("Get(blank) err = %v", err)
	}
}

func TestFormService_Update(t *testing.T) {
	svc, _ := newFormService()
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return created }
	f, _ := svc.Create(ctx, FormRequest{Title: raw(`"Quiz"`), Slug: "quiz"})

	later := created.Add(time.Hour)
	svc.now = func() time.Time { return later }
	got, err := svc.Update(ctx, "quiz", FormRequest{Title: raw(`"Renamed"`), Description: "d", Questions: raw(`[]`)})
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != f.ID || got.PublicID() != "quiz" || !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(later) {
		t.Fatalf("identity not preserved: %+v", got)
	}
	if got.Title != "Renamed" || got.Description != "d" {
		t.Fatalf("content not applied: %+v", got)
	}

	if _, err := svc.Update(ctx, f.ID, FormRequest{Title: raw(`""`)}); !util.IsValidation(err) {
		t.Fatalf("empty title on update err = %v", err)
	}
	if _, err := svc.Update(ctx, "nope", FormRequest{Title: raw(`"x"`)}); !errors.Is(err, util.ErrFormNotFound) {
		t.Fatalf("update missing err = %v", err)
	}
}

func TestFormService_DeleteAndList(t *testing.T) {
	svc, _ := newFormService()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		svc.now = func() time.Time { return at }
		f, _ := svc.Create(ctx, FormRequest{Title: raw(`"Quiz"`)})
		ids = append(ids, f.ID)
	}

	list, err := svc.List(ctx)
	if err != nil || len(list) != 3 || list[0].ID != ids[2] {
		t.Fatalf("List = %v, %v", list, err)
	}

	if err := svc.Delete(ctx, ids[0]); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, ids[0]); !errors.Is(err, util.ErrFormNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestFormService_Duplicate(t *testing.T) {
	svc, _ := newFormService()
	ctx := context.Background()
	q := model.NewQuestion(model.QuestionCategorize)
	body, _ := json.Marshal(model.Questions{q})
	src, _ := svc.Create(ctx, FormRequest{Title: raw(`"Quiz"`), Description: "desc", Questions: body, Slug: "quiz"})

	dup, err := svc.Duplicate(ctx, "quiz")
	if err != nil {
		t.Fatal(err)
	}
	if dup.ID == src.ID || dup.Slug != nil {
		t.Fatalf("duplicate shares identity: %+v", dup)
	}
	if dup.Title != "Quiz (Copy)" || dup.Description != "desc" || len(dup.Questions) != 1 || dup.Questions[0].ID != q.ID {
		t.Fatalf("duplicate content = %+v", dup)
	}
}

func TestFormService_StorageErrors(t *testing.T) {
	svc := NewFormService(failingRepo{})
	ctx := context.Background()

	if _, err := svc.Get(ctx, "abc"); !util.IsStorage(err) {
		t.Fatalf("Get err = %v", err)
	}
	if _, err := svc.Create(ctx, FormRequest{Title: raw(`"Quiz"`)}); !util.IsStorage(err) {
		t.Fatalf("Create err = %v", err)
	}
	if err := svc.Delete(ctx, "abc"); !errors.Is(err, errDown) {
		t.Fatalf("Delete err = %v", err)
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{util.ErrFormNotFound, "not_found"},
		{util.NewValidationError("title", "required"), "invalid"},
		{util.WrapStorage("find form", errDown), "storage_error"},
		{errDown, "error"},
	}
	for _, tc := range tests {
		if got := outcome(tc.err); got != tc.want {
			t.Fatalf("outcome(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestFormService_WarnsOnDuplicateQuestionIDs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Log
	logger.Log = zap.New(core)
	t.Cleanup(func() { logger.Log = prev })

	svc := NewFormService(repository.NewMemoryFormRepository())
	body := raw(`[{"id":"q1","type":"cloze","points":1},{"id":"q1","type":"cloze","points":1}]`)
	if _, err := svc.Create(context.Background(), FormRequest{Title: raw(`"Quiz"`), Questions: body}); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("Form has duplicate question ids").All()
	if len(entries) != 1 {
		t.Fatalf("warnings = %d", len(entries))
	}
	ids, ok := entries[0].ContextMap()["question_ids"].([]interface{})
	if !ok || len(ids) != 1 || ids[0] != "q1" {
		t.Fatalf("question_ids = %#v", entries[0].ContextMap()["question_ids"])
	}
}

func TestFormService_MoveQuestion(t *testing.T) {
	ctx := context.Background()
	svc := NewFormService(repository.NewMemoryFormRepository())
	body := raw(`[{"id":"a","type":"cloze","points":1},{"id":"b","type":"cloze","points":1},{"id":"c","type":"cloze","points":1}]`)
	if _, err := svc.Create(ctx, FormRequest{Title: raw(`"Quiz"`), Questions: body, Slug: "quiz"}); err != nil {
		t.Fatal(err)
	}

	f, err := svc.MoveQuestion(ctx, "quiz", "a", "c")
	if err != nil {
		t.Fatal(err)
	}
	order := func(f *model.Form) string {
		out := ""
		for _, q := range f.Questions {
			out += q.ID
		}
		return out
	}
	if got := order(f); got != "bca" {
		t.Fatalf("order = %s, want bca", got)
	}
	if saved, _ := svc.Get(ctx, "quiz"); order(saved) != "bca" {
		t.Fatalf("saved order = %s", order(saved))
	}

	if f, err := svc.MoveQuestion(ctx, "quiz", "b", "b"); err != nil || order(f) != "bca" {
		t.Fatalf("self drop = %v, %v", f, err)
	}
	if _, err := svc.MoveQuestion(ctx, "quiz", "a", "zz"); !util.IsValidation(err) {
		t.Fatalf("unknown question err = %v", err)
	}
	if _, err := svc.MoveQuestion(ctx, "ghost", "a", "b"); !errors.Is(err, util.ErrFormNotFound) {
		t.Fatalf("unknown form err = %v", err)
	}
}

func TestNewFormView(t *testing.T) {
	slug := "quiz"
	f := &model.Form{Title: "Quiz", Slug: &slug, Questions: model.Questions{
		{ID: "a", Type: model.QuestionCloze, Points: 2},
		{ID: "b", Type: model.QuestionComprehension, Points: 3},
	}}
	f.ID = "sys-id"
	f.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	v := NewFormView(f)
	if v.ID != "quiz" || v.SystemID != "sys-id" || v.Slug != "quiz" {
		t.Fatalf("ids = %+v", v)
	}
	if v.Title != "Quiz" || !v.CreatedAt.Equal(f.CreatedAt) || v.QuestionCount != 2 || v.TotalPoints != 5 {
		t.Fatalf("view = %+v", v)
	}
}

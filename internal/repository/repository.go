package repository

import (
	"context"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/model"
)

// FormRepository stores forms. A lookup that matches nothing returns
// util.ErrFormNotFound; store failures come back as *util.StorageError.
type FormRepository interface {
	Create(ctx context.Context, form *model.Form) error
	Find(ctx context.Context, ref model.FormRef) (*model.Form, error)
	Update(ctx context.Context, ref model.FormRef, content model.FormContent, at time.Time) (*model.Form, error)
	Delete(ctx context.Context, ref model.FormRef) error
	// List returns every form, newest first.
	List(ctx context.Context) ([]model.Form, error)
}

// ResponseRepository stores graded submissions. Records are insert-only.
type ResponseRepository interface {
	Create(ctx context.Context, resp *model.FormResponse) error
	// List returns responses for formID (all when empty), most recent first.
	List(ctx context.Context, formID string) ([]model.FormResponse, error)
}

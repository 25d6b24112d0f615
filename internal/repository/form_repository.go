package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"gorm.io/gorm"
)

type GormFormRepository struct {
	DB *gorm.DB
}

func NewGormFormRepository(db *gorm.DB) *GormFormRepository {
	return &GormFormRepository{DB: db}
}

func byRef(ref model.FormRef) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ref.Kind == model.RefSlug {
			return db.Where("slug = ?", ref.Value)
		}
		return db.Where("id = ?", ref.Value)
	}
}

func (r *GormFormRepository) Create(ctx context.Context, form *model.Form) error {
	if form.Questions == nil {
		form.Questions = model.Questions{}
	}
	err := r.DB.WithContext(ctx).Create(form).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrSlugTaken
	}
	return util.WrapStorage("create form", err)
}

func (r *GormFormRepository) Find(ctx context.Context, ref model.FormRef) (*model.Form, error) {
	var f model.Form
	err := r.DB.WithContext(ctx).Scopes(byRef(ref)).Take(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrFormNotFound
	}
	if err != nil {
		return nil, util.WrapStorage("find form", err)
	}
	return &f, nil
}

func (r *GormFormRepository) Update(ctx context.Context, ref model.FormRef, content model.FormContent, at time.Time) (*model.Form, error) {
	questions := content.Questions
	if questions == nil {
		questions = model.Questions{}
	}
	res := r.DB.WithContext(ctx).Model(&model.Form{}).Scopes(byRef(ref)).Updates(map[string]interface{}{
		"title":       content.Title,
		"description": content.Description,
		"questions":   questions,
		"updated_at":  at,
	})
	if res.Error != nil {
		return nil, util.WrapStorage("update form", res.Error)
	}
	// MySQL counts changed rows, not matched ones, so an unchanged form
	// reports zero. The read decides whether the form exists.
	return r.Find(ctx, ref)
}

func (r *GormFormRepository) Delete(ctx context.Context, ref model.FormRef) error {
	res := r.DB.WithContext(ctx).Scopes(byRef(ref)).Delete(&model.Form{})
	if res.Error != nil {
		return util.WrapStorage("delete form", res.Error)
	}
	if res.RowsAffected == 0 {
		return util.ErrFormNotFound
	}
	return nil
}

func (r *GormFormRepository) List(ctx context.Context) ([]model.Form, error) {
	var forms []model.Form
	err := r.DB.WithContext(ctx).Order("created_at desc").Find(&forms).Error
	return forms, util.WrapStorage("list forms", err)
}

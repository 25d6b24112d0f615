package repository

import (
	"context"

	"github.com/Saravana-31/Form-Builder/internal/model"
	"github.com/Saravana-31/Form-Builder/internal/util"
	"gorm.io/gorm"
)

type GormResponseRepository struct {
	DB *gorm.DB
}

func NewGormResponseRepository(db *gorm.DB) *GormResponseRepository {
	return &GormResponseRepository{DB: db}
}

func (r *GormResponseRepository) Create(ctx context.Context, resp *model.FormResponse) error {
	if resp.ID == "" {
		resp.ID = model.GenerateUUID()
	}
	return util.WrapStorage("create response", r.DB.WithContext(ctx).Create(resp).Error)
}

func (r *GormResponseRepository) List(ctx context.Context, formID string) ([]model.FormResponse, error) {
	var rs []model.FormResponse
	query := r.DB.WithContext(ctx).Model(&model.FormResponse{})
	if formID != "" {
		query = query.Where("form_id = ?", formID)
	}
	err := query.Order("submitted_at desc").Find(&rs).Error
	return rs, util.WrapStorage("list responses", err)
}

package postgres

import (
	"context"

	"github.com/yoockh/adchat/internal/models"
	"gorm.io/gorm"
)

type ClickRepository interface {
	Insert(ctx context.Context, c *models.ClickRecord) error
}

type clickRepo struct {
	db *gorm.DB
}

func NewClickRepo(db *gorm.DB) ClickRepository {
	return &clickRepo{db: db}
}

func (r *clickRepo) Insert(ctx context.Context, c *models.ClickRecord) error {
	return conn(ctx, r.db).Create(c).Error
}

package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/utils"
	"gorm.io/gorm"
)

type AssistantRepository interface {
	List(ctx context.Context) ([]models.Assistant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Assistant, error)
	Create(ctx context.Context, a *models.Assistant) error
	Update(ctx context.Context, a *models.Assistant) error
}

type assistantRepo struct {
	db *gorm.DB
}

func NewAssistantRepo(db *gorm.DB) AssistantRepository {
	return &assistantRepo{db: db}
}

func (r *assistantRepo) List(ctx context.Context) ([]models.Assistant, error) {
	var rows []models.Assistant
	err := conn(ctx, r.db).Order("slug ASC").Find(&rows).Error
	return rows, err
}

func (r *assistantRepo) GetBySlug(ctx context.Context, slug string) (*models.Assistant, error) {
	var a models.Assistant
	err := conn(ctx, r.db).Where("slug = ?", slug).Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assistantRepo) Create(ctx context.Context, a *models.Assistant) error {
	return conn(ctx, r.db).Create(a).Error
}

func (r *assistantRepo) Update(ctx context.Context, a *models.Assistant) error {
	res := conn(ctx, r.db).
		Model(&models.Assistant{}).
		Where("slug = ?", a.Slug).
		Select("name", "description", "icon_emoji", "openrouter_preset", "welcome_message").
		Updates(a)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

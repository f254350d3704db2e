package postgres

import (
	"context"

	"github.com/yoockh/adchat/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	// Ensure inserts the user unless one with the same tg_id exists.
	Ensure(ctx context.Context, u *models.User) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Ensure(ctx context.Context, u *models.User) error {
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "tg_id"}}, DoNothing: true}).
		Create(u).Error
}

func (r *userRepo) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.User
	err := conn(ctx, r.db).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

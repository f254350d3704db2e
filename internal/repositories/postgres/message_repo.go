package postgres

import (
	"context"
	"strconv"

	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/utils"
	"gorm.io/gorm"
)

type MessageRepository interface {
	// Recent returns the newest turns of one conversation, newest first.
	Recent(ctx context.Context, userID int64, assistantSlug string, limit, offset int) ([]models.Message, error)
	InsertMany(ctx context.Context, msgs []*models.Message) error
	Search(ctx context.Context, query string, limit, offset int) ([]models.Message, error)
	Delete(ctx context.Context, id int64) error
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Recent(ctx context.Context, userID int64, assistantSlug string, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var rows []models.Message
	err := conn(ctx, r.db).
		Where("user_id = ? AND assistant_slug = ?", userID, assistantSlug).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *messageRepo) InsertMany(ctx context.Context, msgs []*models.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return conn(ctx, r.db).Create(msgs).Error
}

// Search matches the user id exactly when query is numeric, otherwise content and slug.
func (r *messageRepo) Search(ctx context.Context, query string, limit, offset int) ([]models.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	q := conn(ctx, r.db).Model(&models.Message{})
	if query != "" {
		like := "%" + query + "%"
		if id, err := strconv.ParseInt(query, 10, 64); err == nil {
			q = q.Where("user_id = ? OR content ILIKE ? OR assistant_slug ILIKE ?", id, like, like)
		} else {
			q = q.Where("content ILIKE ? OR assistant_slug ILIKE ?", like, like)
		}
	}

	var rows []models.Message
	err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&rows).Error
	return rows, err
}

func (r *messageRepo) Delete(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&models.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

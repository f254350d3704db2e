package postgres

import (
	"context"
	"time"

	"github.com/yoockh/adchat/internal/models"
	"gorm.io/gorm"
)

type MetricsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// CountActiveUsersSince counts distinct users with a message at or after since; zero since means all time.
	CountActiveUsersSince(ctx context.Context, since time.Time) (int64, error)
	// CountRetainedUsers counts users created at or before cutoff who wrote at least days after signing up.
	CountRetainedUsers(ctx context.Context, cutoff time.Time, days int) (int64, error)
	AssistantPopularity(ctx context.Context) ([]models.NamedCount, error)
	MessageVolume(ctx context.Context, since time.Time) ([]models.DailyCount, error)
	ProductCTR(ctx context.Context) ([]models.ProductCTR, error)
}

type metricsRepo struct {
	db *gorm.DB
}

func NewMetricsRepo(db *gorm.DB) MetricsRepository {
	return &metricsRepo{db: db}
}

func (r *metricsRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&models.User{}).Count(&n).Error
	return n, err
}

func (r *metricsRepo) CountUsersCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	err := conn(ctx, r.db).
		Model(&models.User{}).
		Where("created_at <= ?", cutoff).
		Count(&n).Error
	return n, err
}

func (r *metricsRepo) CountActiveUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	q := conn(ctx, r.db).Model(&models.Message{})
	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	err := q.Distinct("user_id").Count(&n).Error
	return n, err
}

func (r *metricsRepo) CountRetainedUsers(ctx context.Context, cutoff time.Time, days int) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Raw(`
		SELECT COUNT(DISTINCT u.tg_id)
		FROM users u
		JOIN messages m ON m.user_id = u.tg_id
		WHERE u.created_at <= ?
		  AND m.created_at >= u.created_at + make_interval(days => ?)`,
		cutoff, days).
		Scan(&n).Error
	return n, err
}

func (r *metricsRepo) AssistantPopularity(ctx context.Context) ([]models.NamedCount, error) {
	var rows []models.NamedCount
	err := conn(ctx, r.db).
		Model(&models.Message{}).
		Select("assistant_slug AS name, COUNT(id) AS count").
		Group("assistant_slug").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *metricsRepo) MessageVolume(ctx context.Context, since time.Time) ([]models.DailyCount, error) {
	var rows []models.DailyCount
	err := conn(ctx, r.db).
		Model(&models.Message{}).
		Select("to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS date, COUNT(id) AS count").
		Where("created_at >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *metricsRepo) ProductCTR(ctx context.Context) ([]models.ProductCTR, error) {
	var rows []models.ProductCTR
	err := conn(ctx, r.db).Raw(`
		SELECT p.id AS product_id, p.name, p.impressions, p.clicks,
		       COUNT(DISTINCT c.user_id) AS unique_clickers
		FROM products p
		LEFT JOIN click_records c ON c.product_id = p.id
		GROUP BY p.id, p.name, p.impressions, p.clicks
		ORDER BY p.impressions DESC, p.id ASC`).
		Scan(&rows).Error
	return rows, err
}

package postgres

import (
	"context"
	"errors"

	"github.com/yoockh/adchat/internal/models"
	"github.com/yoockh/adchat/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepository interface {
	ListActive(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	// IncrementImpressions adds one impression to every existing product in ids.
	// Unknown ids match no row. Returns the number of products updated.
	IncrementImpressions(ctx context.Context, ids []int64) (int64, error)
	IncrementClicks(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	UpsertByName(ctx context.Context, products []models.Product) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) ListActive(ctx context.Context) ([]models.Product, error) {
	var rows []models.Product
	err := conn(ctx, r.db).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *productRepo) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	var p models.Product
	err := conn(ctx, r.db).Where("id = ?", id).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) IncrementImpressions(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := conn(ctx, r.db).
		Model(&models.Product{}).
		Where("id IN ?", ids).
		UpdateColumn("impressions", gorm.Expr("impressions + ?", 1))
	return res.RowsAffected, res.Error
}

func (r *productRepo) IncrementClicks(ctx context.Context, id int64) error {
	res := conn(ctx, r.db).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []models.Product
	err := conn(ctx, r.db).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *productRepo) Create(ctx context.Context, p *models.Product) error {
	return conn(ctx, r.db).Create(p).Error
}

// Update writes the editable columns only; counters are never overwritten from forms.
func (r *productRepo) Update(ctx context.Context, p *models.Product) error {
	res := conn(ctx, r.db).
		Model(&models.Product{}).
		Where("id = ?", p.ID).
		Select("name", "keywords", "ad_text", "link", "is_active", "target_assistants").
		Updates(p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}

func (r *productRepo) UpsertByName(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return conn(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"keywords", "ad_text", "link", "is_active", "target_assistants"}),
		}).
		Omit("id", "impressions", "clicks").
		Create(&products).Error
}

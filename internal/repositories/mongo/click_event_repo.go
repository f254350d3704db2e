package mongo

import (
	"context"
	"time"

	"github.com/yoockh/adchat/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ClickEventsCollection = "click_events"

type ClickEventRepository interface {
	Insert(ctx context.Context, e *models.ClickEvent) error
	ListByProduct(ctx context.Context, productID int64, limit int64) ([]models.ClickEvent, error)
}

type clickEventRepo struct {
	col *mongo.Collection
}

func NewClickEventRepo(db *mongo.Database) ClickEventRepository {
	return &clickEventRepo{col: db.Collection(ClickEventsCollection)}
}

func (r *clickEventRepo) Insert(ctx context.Context, e *models.ClickEvent) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

func (r *clickEventRepo) ListByProduct(ctx context.Context, productID int64, limit int64) ([]models.ClickEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	cur, err := r.col.Find(ctx,
		bson.M{"product_id": productID},
		options.Find().
			SetSort(bson.D{{Key: "timestamp", Value: -1}}).
			SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ClickEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

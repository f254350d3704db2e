package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClickRecord is one observed click-through by a known user.
type ClickRecord struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"user_id"`
	ProductID int64     `gorm:"column:product_id;index" json:"product_id"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (ClickRecord) TableName() string { return "click_records" }

// ClickEvent is the raw audit copy of a click kept in Mongo.
type ClickEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProductID int64              `bson:"product_id" json:"product_id"`
	UserID    *int64             `bson:"user_id,omitempty" json:"user_id,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	Referer   string             `bson:"referer,omitempty" json:"referer,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}

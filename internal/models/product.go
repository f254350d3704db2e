package models

import (
	"math"

	"github.com/lib/pq"
)

type Product struct {
	ID               int64          `gorm:"column:id;primaryKey" json:"id"`
	Name             string         `gorm:"column:name;type:text;uniqueIndex" json:"name"`
	Keywords         pq.StringArray `gorm:"column:keywords;type:text[]" json:"keywords"`
	AdText           string         `gorm:"column:ad_text;type:text" json:"ad_text"`
	Link             string         `gorm:"column:link;type:text" json:"link"`
	IsActive         bool           `gorm:"column:is_active;not null;index" json:"is_active"` // no gorm default, false must be stored as false
	TargetAssistants string         `gorm:"column:target_assistants;type:text" json:"target_assistants"` // "medic, fitness"; empty = all

	// CTR counters, only ever incremented
	Impressions int64 `gorm:"column:impressions;default:0" json:"impressions"`
	Clicks      int64 `gorm:"column:clicks;default:0" json:"clicks"`
}

func (Product) TableName() string { return "products" }

// CTR returns clicks/impressions in percent rounded to 2 decimals, 0 without impressions.
func (p Product) CTR() float64 {
	return CTR(p.Clicks, p.Impressions)
}

func CTR(clicks, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return math.Round(float64(clicks)/float64(impressions)*100*100) / 100
}

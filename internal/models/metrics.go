package models

// Dashboard is the admin analytics snapshot.
type Dashboard struct {
	DAU                 int64              `json:"dau"`
	MAU                 int64              `json:"mau"`
	Retention           map[string]float64 `json:"retention"` // "1_day", "7_day", "30_day" -> percent
	AssistantPopularity []NamedCount       `json:"assistant_popularity"`
	MessageVolume       []DailyCount       `json:"message_volume"`
	ConversionRate      float64            `json:"conversion_rate"`
	CTRStats            []ProductCTR       `json:"ctr_stats"`
}

type NamedCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int64  `json:"count"`
}

type ProductCTR struct {
	ProductID      int64   `json:"product_id"`
	Name           string  `json:"name"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	UniqueClickers int64   `json:"unique_clickers"`
	CTR            float64 `json:"ctr"`
}

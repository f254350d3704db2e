package admin

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yoockh/adchat/internal/models"
)

type UserRow struct {
	TgID        int64     `json:"tg_id"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
	HistoryLink string    `json:"history_link"`
}

type MessageRow struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	CreatedAt     time.Time `json:"created_at"`
	AssistantSlug string    `json:"assistant_slug"`
	Role          string    `json:"role"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"image_url,omitempty"`
	AdProductIDs  []int64   `json:"ad_product_ids,omitempty"`
}

type ProductRow struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Keywords         string `json:"keywords"`
	AdText           string `json:"ad_text"`
	Link             string `json:"link"`
	IsActive         bool   `json:"is_active"`
	TargetAssistants string `json:"target_assistants"`
	Impressions      int64  `json:"impressions"`
	Clicks           int64  `json:"clicks"`
	CTR              string `json:"ctr"`
}

func UserRows(users []models.User) []UserRow {
	out := make([]UserRow, 0, len(users))
	for _, u := range users {
		out = append(out, UserRow{
			TgID:        u.TgID,
			Username:    u.Username,
			CreatedAt:   u.CreatedAt,
			HistoryLink: "/admin/messages?search=" + url.QueryEscape(strconv.FormatInt(u.TgID, 10)),
		})
	}
	return out
}

func MessageRows(msgs []models.Message) []MessageRow {
	out := make([]MessageRow, 0, len(msgs))
	for _, m := range msgs {
		row := MessageRow{
			ID:            m.ID,
			UserID:        m.UserID,
			CreatedAt:     m.CreatedAt,
			AssistantSlug: m.AssistantSlug,
			Role:          m.Role,
			Content:       m.Content,
		}
		if m.ImageURL != nil {
			row.ImageURL = *m.ImageURL
		}
		for _, mk := range m.Markers() {
			row.AdProductIDs = append(row.AdProductIDs, mk.ProductID)
		}
		out = append(out, row)
	}
	return out
}

func ProductRows(products []models.Product) []ProductRow {
	out := make([]ProductRow, 0, len(products))
	for _, p := range products {
		out = append(out, ProductRow{
			ID:               p.ID,
			Name:             p.Name,
			Keywords:         strings.Join(p.Keywords, ", "),
			AdText:           p.AdText,
			Link:             p.Link,
			IsActive:         p.IsActive,
			TargetAssistants: p.TargetAssistants,
			Impressions:      p.Impressions,
			Clicks:           p.Clicks,
			CTR:              FormatPercent(p.CTR()),
		})
	}
	return out
}

// FormatPercent renders 12.5 as "12.5%" and 0 as "0%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// ProductForm is the editable subset of a product.
type ProductForm struct {
	Name             string `json:"name"`
	Keywords         string `json:"keywords"` // comma separated
	AdText           string `json:"ad_text"`
	Link             string `json:"link"`
	IsActive         *bool  `json:"is_active"`
	TargetAssistants string `json:"target_assistants"`
}

func (f ProductForm) Product(id int64) models.Product {
	active := true
	if f.IsActive != nil {
		active = *f.IsActive
	}
	kws := []string{}
	for _, k := range strings.Split(f.Keywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			kws = append(kws, k)
		}
	}
	return models.Product{
		ID:               id,
		Name:             f.Name,
		Keywords:         kws,
		AdText:           f.AdText,
		Link:             f.Link,
		IsActive:         active,
		TargetAssistants: strings.TrimSpace(f.TargetAssistants),
	}
}

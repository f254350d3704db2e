package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	RoleUserTurn      = "user"
	RoleAssistantTurn = "assistant"
)

// Message is one conversation turn between a user and an assistant.
type Message struct {
	ID            int64          `gorm:"column:id;primaryKey" json:"id"`
	UserID        int64          `gorm:"column:user_id;index:idx_messages_user_assistant" json:"user_id"`
	AssistantSlug string         `gorm:"column:assistant_slug;type:text;index:idx_messages_user_assistant" json:"assistant_slug"`
	Role          string         `gorm:"column:role;type:text" json:"role"` // "user" | "assistant"
	Content       string         `gorm:"column:content;type:text" json:"content"`
	ImageURL      *string        `gorm:"column:image_url;type:text" json:"image_url,omitempty"`
	AdMarkers     datatypes.JSON `gorm:"column:ad_markers;type:jsonb" json:"ad_markers,omitempty"`
	CreatedAt     time.Time      `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

// AdMarker records a tracking link that was surfaced in an assistant turn.
type AdMarker struct {
	ProductID int64  `json:"product_id"`
	URL       string `json:"url,omitempty"`
}

func (m *Message) SetAdMarkers(markers []AdMarker) error {
	if len(markers) == 0 {
		m.AdMarkers = nil
		return nil
	}
	b, err := json.Marshal(markers)
	if err != nil {
		return err
	}
	m.AdMarkers = datatypes.JSON(b)
	return nil
}

// Markers decodes AdMarkers; corrupt or empty payloads yield nil.
func (m Message) Markers() []AdMarker {
	if len(m.AdMarkers) == 0 {
		return nil
	}
	var out []AdMarker
	if err := json.Unmarshal(m.AdMarkers, &out); err != nil {
		return nil
	}
	return out
}

package models

type Assistant struct {
	Slug           string `gorm:"column:slug;type:text;primaryKey" json:"slug"` // "medic", "pushkin"
	Name           string `gorm:"column:name;type:text" json:"name"`
	Description    string `gorm:"column:description;type:text" json:"description"`
	IconEmoji      string `gorm:"column:icon_emoji;type:text" json:"icon_emoji"`
	Preset         string `gorm:"column:openrouter_preset;type:text" json:"openrouter_preset"` // "@preset/..."
	WelcomeMessage string `gorm:"column:welcome_message;type:text" json:"welcome_message"`
}

func (Assistant) TableName() string { return "assistants" }

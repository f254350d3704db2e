package models

import "time"

// User is a Telegram user of the mini-app, keyed by Telegram id.
type User struct {
	TgID      int64     `gorm:"column:tg_id;primaryKey;autoIncrement:false" json:"tg_id"`
	Username  string    `gorm:"column:username;type:text" json:"username"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (User) TableName() string { return "users" }

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

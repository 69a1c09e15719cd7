package models

import (
	"time"
)

// Character keeps AccountID without a foreign key constraint: rows survive
// account deletion and render at public tier only.
type Character struct {
	ID        int64     `json:"characterId" gorm:"primaryKey;autoIncrement"`
	AccountID int64     `json:"accountId" gorm:"not null;index;uniqueIndex:character_owner_name,priority:1"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex:character_owner_name,priority:2"`
	Health    int       `json:"health" gorm:"not null;default:500"`
	Power     int       `json:"power" gorm:"not null;default:100"`
	Money     int       `json:"money" gorm:"not null;default:10000"`
	CDate     time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

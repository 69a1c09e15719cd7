package models

import (
	"time"
)

type Account struct {
	ID        int64     `json:"accountId" gorm:"primaryKey;autoIncrement"`
	LoginName string    `json:"loginName" gorm:"type:text;not null;uniqueIndex"`
	Password  string    `json:"-" gorm:"type:text;not null"`
	CDate     time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

package models

import "time"

// StoredSession is the persisted session row: one token under one well-known key
type StoredSession struct {
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (s *StoredSession) TableName() string {
	return "client_sessions"
}

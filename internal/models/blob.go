package models

import "time"

// Blob is one key/value row of the persistence table. The whole app state is
// a single row; settings are another.
type Blob struct {
	Key       string    `gorm:"column:name;primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name independently of gorm's pluralizer.
func (Blob) TableName() string { return "blobs" }

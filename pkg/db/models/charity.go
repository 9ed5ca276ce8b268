package models

import "time"

// Charity is reference data for donation targets.
type Charity struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:text;not null"`
	Description *string   `gorm:"column:description"`
	Website     *string   `gorm:"column:website"`
	LogoURL     *string   `gorm:"column:logo_url"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

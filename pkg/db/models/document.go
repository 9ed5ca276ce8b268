package models

import (
	"time"

	"github.com/pdflex/pdflex-backend/pkg/enums"
)

// Document is an uploaded PDF owned by a user. Derived artifacts live next to
// StoredFilename in the artifact store and are not tracked as rows.
type Document struct {
	ID               int64                `gorm:"column:id;primaryKey;autoIncrement"`
	UserID           int64                `gorm:"column:user_id;not null;index"`
	OriginalFilename string               `gorm:"column:original_filename;type:text;not null"`
	StoredFilename   string               `gorm:"column:stored_filename;type:text;not null;uniqueIndex"`
	Status           enums.DocumentStatus `gorm:"column:status;type:text;not null;default:'uploaded'"`
	Pages            *int                 `gorm:"column:pages"`
	TextExcerpt      *string              `gorm:"column:text_excerpt"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
}

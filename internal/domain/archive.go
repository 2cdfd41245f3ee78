package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchivedInterview struct - A finished interview kept after its session is gone
type ArchivedInterview struct {
	ID          *uuid.UUID      `gorm:"type:uuid;primary_key;"`
	SessionID   string          `gorm:"type:varchar(128);not null;uniqueIndex"`
	Language    string          `gorm:"type:varchar(16)"`
	Record      string          `gorm:"type:TEXT;not null;"` // JSON section -> field -> value
	Transcript  string          `gorm:"type:TEXT;not null;"` // JSON dialogue log
	TurnCount   int             `gorm:"not null;"`
	StartedAt   *time.Time      `gorm:"type:timestamp"`
	CompletedAt *time.Time      `gorm:"type:timestamp;not null;"`
	CreatedAt   *time.Time      `gorm:"type:timestamp"`
	UpdatedAt   *time.Time      `gorm:"type:timestamp"`
	DeletedAt   *gorm.DeletedAt `gorm:"type:timestamp"`
}

// TableName func
func (a *ArchivedInterview) TableName() string {
	return "archived_interviews"
}

// BeforeCreate hook - generates UUID before creating
func (a *ArchivedInterview) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID != nil {
		return nil
	}
	id, err := uuid.NewRandom() // v4
	if err != nil {
		return err
	}
	a.ID = &id
	return nil
}

// MigrateDatabase func - Auto-migrate database schema
func MigrateDatabase(db *gorm.DB) error {
	if db == nil {
		return ErrFeatureDisabled
	}
	return db.AutoMigrate(&ArchivedInterview{})
}

type (
	// ArchiveQuery struct - Paged listing of archived interviews
	ArchiveQuery struct {
		Language *string
		Limit    *int
		Page     *int
		Asc      *bool
	}

	// ArchiveSummary struct - One archived interview as returned to callers
	ArchiveSummary struct {
		ID          string         `json:"id"`
		SessionID   string         `json:"session_id"`
		Language    string         `json:"language"`
		Record      Record         `json:"record"`
		Transcript  []DialogueTurn `json:"transcript,omitempty"`
		TurnCount   int            `json:"turn_count"`
		StartedAt   *time.Time     `json:"started_at,omitempty"`
		CompletedAt *time.Time     `json:"completed_at"`
	}

	// ArchiveListResponse struct - Paged archive listing
	ArchiveListResponse struct {
		Interviews  []ArchiveSummary
		CurrentPage int
		PerPage     int
		TotalItem   int64
	}
)

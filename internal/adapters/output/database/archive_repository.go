package database

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"sehatnama/internal/domain"
	"sehatnama/internal/ports/output"
)

var _ output.InterviewArchive = (*ArchiveRepository)(nil)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ArchiveRepository struct - Secondary/Driven adapter storing finished interviews through gorm
type ArchiveRepository struct {
	dbGorm *gorm.DB
}

// NewArchiveRepository func - Migrates the schema and creates the repository
func NewArchiveRepository(dbGorm *gorm.DB) (*ArchiveRepository, error) {
	logrus.Info("Migrate database ...")
	if err := domain.MigrateDatabase(dbGorm); err != nil {
		return nil, err
	}
	return &ArchiveRepository{
		dbGorm: dbGorm,
	}, nil
}

// SaveInterview func - Inserts the interview unless its session was archived before
func (p *ArchiveRepository) SaveInterview(ctx context.Context, interview domain.ArchivedInterview) (bool, error) {
	created := false
	err := p.dbGorm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.ArchivedInterview{}).
			Where(p.condition(interview.SessionID, nil)).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&interview).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		logrus.Errorln(err)
		return false, err
	}
	return created, nil
}

// GetInterview func - Returns the archived interview of a session
func (p *ArchiveRepository) GetInterview(ctx context.Context, sessionID string) (*domain.ArchivedInterview, error) {
	var interview domain.ArchivedInterview
	err := p.dbGorm.WithContext(ctx).Where(p.condition(sessionID, nil)).First(&interview).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		logrus.Errorln(err)
		return nil, err
	}
	return &interview, nil
}

// ListInterviews func - Returns one page of archived interviews and the total count
func (p *ArchiveRepository) ListInterviews(ctx context.Context, query domain.ArchiveQuery) ([]domain.ArchivedInterview, int64, error) {
	var (
		interviews []domain.ArchivedInterview
		total      int64
	)

	limit, offset := p.pagination(query)
	order := "completed_at desc"
	if query.Asc != nil && *query.Asc {
		order = "completed_at asc"
	}

	db := p.dbGorm.WithContext(ctx).
		Model(&domain.ArchivedInterview{}).
		Where(p.condition("", query.Language)).
		Session(&gorm.Session{})
	if err := db.Count(&total).Error; err != nil {
		logrus.Errorln(err)
		return nil, 0, err
	}
	if err := db.Order(order).Limit(limit).Offset(offset).Find(&interviews).Error; err != nil {
		logrus.Errorln(err)
		return nil, 0, err
	}
	return interviews, total, nil
}

func (p *ArchiveRepository) condition(sessionID string, language *string) map[string]interface{} {
	expression := make(map[string]interface{})
	if sessionID != "" {
		expression["session_id"] = sessionID
	}
	if language != nil && *language != "" {
		expression["language"] = *language
	}
	return expression
}

func (p *ArchiveRepository) pagination(query domain.ArchiveQuery) (limit, offset int) {
	limit = defaultLimit
	if query.Limit != nil && *query.Limit > 0 {
		limit = *query.Limit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	page := 1
	if query.Page != nil && *query.Page > 1 {
		page = *query.Page
	}
	return limit, (page - 1) * limit
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"peysphotos/api/internal/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	return mapError(r.db.WithContext(ctx).Create(session).Error)
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return models.Session{}, mapError(err)
	}
	return session, nil
}

func (r *SessionRepository) UpdateToken(ctx context.Context, id string, hash []byte, expiresAt time.Time) error {
	return mapError(r.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"refresh_token_hash": hash,
			"expires_at":         expiresAt,
		}).Error)
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return mapError(r.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error)
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) error {
	return mapError(r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now().UTC()).
		Delete(&models.Session{}).Error)
}

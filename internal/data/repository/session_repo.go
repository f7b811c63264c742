package repository

import (
	"context"
	"errors"
	"fmt"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SessionRepository interface {
	// FindValidSession returns the unexpired, unrevoked session for token with
	// the owner's role attached. Inactive or deleted users have no valid session.
	FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error)
}

type sessionRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewSessionRepository(db database.DBTX, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) FindValidSession(ctx context.Context, token uuid.UUID) (*entity.Session, error) {
	query := `
		SELECT s.id, s.user_id, s.token, s.user_agent, s.ip_address,
		       s.expires_at, s.revoked_at, s.created_at, u.role
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1
		  AND s.revoked_at IS NULL
		  AND s.expires_at > NOW()
		  AND u.is_active
		  AND u.deleted_at IS NULL
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.RevokedAt,
		&session.CreatedAt,
		&session.Role,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find valid session", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

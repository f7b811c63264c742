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

type PrivilegeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Privilege, error)
}

type privilegeRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewPrivilegeRepository(db database.DBTX, log *zap.Logger) PrivilegeRepository {
	return &privilegeRepository{
		db:  db,
		log: log.With(zap.String("repository", "privilege")),
	}
}

func (r *privilegeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Privilege, error) {
	query := `SELECT id, name, description FROM privileges WHERE id = $1`

	var privilege entity.Privilege
	err := r.db.QueryRow(ctx, query, id).Scan(&privilege.ID, &privilege.Name, &privilege.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find privilege", zap.Error(err), zap.String("privilege_id", id.String()))
		return nil, fmt.Errorf("find privilege %s: %w", id, err)
	}

	return &privilege, nil
}

package repository

import (
	"context"
	"fmt"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/pkg/database"

	"go.uber.org/zap"
)

type CommandantRepository interface {
	Create(ctx context.Context, commandant *entity.Commandant) error
}

type commandantRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewCommandantRepository(db database.DBTX, log *zap.Logger) CommandantRepository {
	return &commandantRepository{
		db:  db,
		log: log.With(zap.String("repository", "commandant")),
	}
}

func (r *commandantRepository) Create(ctx context.Context, commandant *entity.Commandant) error {
	query := `INSERT INTO commandants (user_id, building_id) VALUES ($1, $2)`

	if _, err := r.db.Exec(ctx, query, commandant.UserID, commandant.BuildingID); err != nil {
		r.log.Error("Failed to create commandant",
			zap.Error(err),
			zap.String("user_id", commandant.UserID.String()),
		)
		return fmt.Errorf("create commandant %s: %w", commandant.UserID, err)
	}

	return nil
}

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

type RoomRepository interface {
	// FindByIDForUpdate locks the room row until the surrounding tx ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Room, error)
	// ReserveSeat takes one place only while the room has a free place and
	// admits the gender. It returns nil, nil when nothing was updated.
	ReserveSeat(ctx context.Context, id uuid.UUID, gender entity.Gender) (*entity.Room, error)
	ReleaseSeat(ctx context.Context, id uuid.UUID) (*entity.Room, error)
}

type roomRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewRoomRepository(db database.DBTX, log *zap.Logger) RoomRepository {
	return &roomRepository{
		db:  db,
		log: log.With(zap.String("repository", "room")),
	}
}

const roomColumns = `r.id, r.building_id, r.number, r.floor, t.place, r.person_count, r.is_full, r.gender, r.created_at, r.updated_at`

func scanRoom(row pgx.Row) (*entity.Room, error) {
	var room entity.Room
	err := row.Scan(
		&room.ID,
		&room.BuildingID,
		&room.Number,
		&room.Floor,
		&room.Capacity,
		&room.PersonCount,
		&room.IsFull,
		&room.Gender,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms r
		JOIN room_types t ON t.id = r.room_type_id
		WHERE r.id = $1
		FOR UPDATE OF r
	`

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock room", zap.Error(err), zap.String("room_id", id.String()))
		return nil, fmt.Errorf("lock room %s: %w", id, err)
	}

	return room, nil
}

func (r *roomRepository) ReserveSeat(ctx context.Context, id uuid.UUID, gender entity.Gender) (*entity.Room, error) {
	query := `
		UPDATE rooms r
		SET person_count = r.person_count + 1,
		    is_full = (r.person_count + 1 >= t.place),
		    gender = CASE WHEN r.gender = '' THEN $2 ELSE r.gender END,
		    updated_at = NOW()
		FROM room_types t
		WHERE t.id = r.room_type_id
		  AND r.id = $1
		  AND r.person_count < t.place
		  AND (r.gender = '' OR r.gender = $2)
		RETURNING ` + roomColumns

	room, err := scanRoom(r.db.QueryRow(ctx, query, id, gender))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to reserve seat",
			zap.Error(err),
			zap.String("room_id", id.String()),
			zap.String("gender", string(gender)),
		)
		return nil, fmt.Errorf("reserve seat in room %s: %w", id, err)
	}

	return room, nil
}

func (r *roomRepository) ReleaseSeat(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	query := `
		UPDATE rooms r
		SET person_count = GREATEST(r.person_count - 1, 0),
		    is_full = (GREATEST(r.person_count - 1, 0) >= t.place),
		    gender = CASE WHEN r.person_count <= 1 THEN '' ELSE r.gender END,
		    updated_at = NOW()
		FROM room_types t
		WHERE t.id = r.room_type_id
		  AND r.id = $1
		RETURNING ` + roomColumns

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to release seat", zap.Error(err), zap.String("room_id", id.String()))
		return nil, fmt.Errorf("release seat in room %s: %w", id, err)
	}

	return room, nil
}

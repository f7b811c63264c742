package repository

import (
	"context"
	"fmt"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transfer, error)
}

type transferRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewTransferRepository(db database.DBTX, log *zap.Logger) TransferRepository {
	return &transferRepository{
		db:  db,
		log: log.With(zap.String("repository", "transfer")),
	}
}

func (r *transferRepository) Create(ctx context.Context, transfer *entity.Transfer) error {
	query := `
		INSERT INTO booking_transfers (id, booking_id, from_room_id, to_room_id, moved_by, moved_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		transfer.ID,
		transfer.BookingID,
		transfer.FromRoomID,
		transfer.ToRoomID,
		transfer.MovedBy,
		transfer.MovedAt,
	)

	if err != nil {
		r.log.Error("Failed to record transfer",
			zap.Error(err),
			zap.String("booking_id", transfer.BookingID.String()),
			zap.String("to_room_id", transfer.ToRoomID.String()),
		)
		return fmt.Errorf("record transfer of booking %s: %w", transfer.BookingID, err)
	}

	return nil
}

func (r *transferRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Transfer, error) {
	query := `
		SELECT id, booking_id, from_room_id, to_room_id, moved_by, moved_at
		FROM booking_transfers
		WHERE booking_id = $1
		ORDER BY moved_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to get transfers", zap.Error(err), zap.String("booking_id", bookingID.String()))
		return nil, fmt.Errorf("find transfers for booking %s: %w", bookingID, err)
	}
	defer rows.Close()

	var transfers []*entity.Transfer
	for rows.Next() {
		var t entity.Transfer
		if err := rows.Scan(&t.ID, &t.BookingID, &t.FromRoomID, &t.ToRoomID, &t.MovedBy, &t.MovedAt); err != nil {
			r.log.Error("Failed to scan transfer row", zap.Error(err))
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}
		transfers = append(transfers, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer rows: %w", err)
	}

	return transfers, nil
}

package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/data/repository"
	"dormitory-backend/internal/pricing"
	"dormitory-backend/pkg/metrics"
	"dormitory-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type SeatInput struct {
	StudentID   uuid.UUID
	RoomID      uuid.UUID
	StartDate   time.Time
	PrivilegeID *uuid.UUID
}

type SeatResult struct {
	RoomID      uuid.UUID
	PersonCount int
	Capacity    int
	FreePlaces  int
	Booking     *entity.Booking
}

// CheckoutResult is the outcome of closing or cancelling a booking.
type CheckoutResult struct {
	RoomID      uuid.UUID
	PersonCount int
	RoomGender  entity.Gender
	Booking     *entity.Booking
}

type TransferResult struct {
	Transfer *entity.Transfer
	Booking  *entity.Booking
	FromRoom *entity.Room
	ToRoom   *entity.Room
}

type BookingDetail struct {
	Booking   *entity.Booking
	Debt      decimal.Decimal
	Payments  []*entity.Payment
	Transfers []*entity.Transfer
}

type BookingService interface {
	SeatStudent(ctx context.Context, actor entity.Actor, in SeatInput) (*SeatResult, error)
	CloseBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, endDate time.Time) (*CheckoutResult, error)
	TransferStudent(ctx context.Context, actor entity.Actor, bookingID, roomID uuid.UUID) (*TransferResult, error)
	CancelBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, date time.Time) (*CheckoutResult, error)
	GetBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*BookingDetail, error)
}

type bookingService struct {
	tx         *txRunner
	programEnd time.Time
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewBookingService(store Store, config *utils.Config, m *metrics.Metrics, log *zap.Logger) BookingService {
	log = log.With(zap.String("service", "booking"))
	return &bookingService{
		tx:         newTxRunner(store, config.Storage, log),
		programEnd: utils.DateOnly(config.Booking.ProgramEnd),
		metrics:    m,
		log:        log,
	}
}

func (s *bookingService) SeatStudent(ctx context.Context, actor entity.Actor, in SeatInput) (*SeatResult, error) {
	if err := authorize(actor, staffRoles...); err != nil {
		return nil, err
	}

	start := utils.DateOnly(in.StartDate)
	var result *SeatResult

	err := s.tx.run(ctx, "seat", func(tx *repository.Repository) error {
		student, err := tx.Student.FindByID(ctx, in.StudentID)
		if err != nil {
			return err
		}
		if student == nil {
			return ErrStudentNotFound
		}

		if in.PrivilegeID != nil {
			privilege, err := tx.Privilege.FindByID(ctx, *in.PrivilegeID)
			if err != nil {
				return err
			}
			if privilege == nil {
				return ErrPrivilegeNotFound
			}
		}

		active, err := tx.Booking.FindActiveByStudentID(ctx, student.ID)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrDuplicateActiveBooking
		}

		room, err := tx.Room.FindByIDForUpdate(ctx, in.RoomID)
		if err != nil {
			return err
		}
		if room == nil {
			return ErrRoomNotFound
		}
		if err := checkAdmission(room, student.Gender); err != nil {
			return err
		}

		total, err := priceStay(student, start, s.programEnd, in.PrivilegeID != nil)
		if err != nil {
			return err
		}

		room, err = tx.Room.ReserveSeat(ctx, room.ID, student.Gender)
		if err != nil {
			return err
		}
		if room == nil {
			return ErrRoomFull
		}

		now := time.Now()
		booking := &entity.Booking{
			BaseNoDelete: entity.BaseNoDelete{
				ID:        uuid.New(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			StudentID:   student.ID,
			RoomID:      room.ID,
			PrivilegeID: in.PrivilegeID,
			StartDate:   start,
			EndDate:     s.programEnd,
			TotalPrice:  total,
			Payed:       decimal.Zero,
			Status:      entity.BookingStatusActive,
			CreatedBy:   actor.UserID,
		}

		if err := tx.Booking.Create(ctx, booking); err != nil {
			if errors.Is(err, repository.ErrActiveBookingExists) {
				return ErrDuplicateActiveBooking
			}
			return err
		}

		result = &SeatResult{
			RoomID:      room.ID,
			PersonCount: room.PersonCount,
			Capacity:    room.Capacity,
			FreePlaces:  room.FreePlaces(),
			Booking:     booking,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("seat", err,
			zap.String("student_id", in.StudentID.String()),
			zap.String("room_id", in.RoomID.String()),
		)
	}

	s.metrics.Operation("seat")
	s.log.Info("Student seated",
		zap.String("booking_id", result.Booking.ID.String()),
		zap.String("student_id", in.StudentID.String()),
		zap.String("room_id", result.RoomID.String()),
		zap.Int("person_count", result.PersonCount),
		zap.String("total_price", result.Booking.TotalPrice.String()),
		zap.String("actor_id", actor.UserID.String()),
	)

	return result, nil
}

func (s *bookingService) CloseBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, endDate time.Time) (*CheckoutResult, error) {
	if err := authorize(actor, staffRoles...); err != nil {
		return nil, err
	}

	end := utils.DateOnly(endDate)
	var result *CheckoutResult

	err := s.tx.run(ctx, "close", func(tx *repository.Repository) error {
		booking, err := lockActiveBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		student, err := tx.Student.FindByID(ctx, booking.StudentID)
		if err != nil {
			return err
		}
		if student == nil {
			return ErrStudentNotFound
		}

		total, err := priceStay(student, booking.StartDate, end, booking.PrivilegeID != nil)
		if err != nil {
			return err
		}
		// Keep payed <= total_price, there are no refunds.
		if total.LessThan(booking.Payed) {
			total = booking.Payed
		}

		booking.EndDate = end
		booking.TotalPrice = total
		booking.Status = entity.BookingStatusSettled

		result, err = checkout(ctx, tx, booking)
		return err
	})
	if err != nil {
		return nil, s.fail("close", err, zap.String("booking_id", bookingID.String()))
	}

	s.metrics.Operation("close")
	s.log.Info("Booking closed",
		zap.String("booking_id", bookingID.String()),
		zap.String("room_id", result.RoomID.String()),
		zap.Int("person_count", result.PersonCount),
		zap.String("total_price", result.Booking.TotalPrice.String()),
		zap.String("actor_id", actor.UserID.String()),
	)

	return result, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID, date time.Time) (*CheckoutResult, error) {
	if err := authorize(actor, staffRoles...); err != nil {
		return nil, err
	}

	end := utils.DateOnly(date)
	var result *CheckoutResult

	err := s.tx.run(ctx, "cancel", func(tx *repository.Repository) error {
		booking, err := lockActiveBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if end.Before(booking.StartDate) {
			return ErrInvalidDateRange
		}

		booking.EndDate = end
		booking.TotalPrice = booking.Payed
		booking.Status = entity.BookingStatusCanceled

		result, err = checkout(ctx, tx, booking)
		return err
	})
	if err != nil {
		return nil, s.fail("cancel", err, zap.String("booking_id", bookingID.String()))
	}

	s.metrics.Operation("cancel")
	s.log.Info("Booking canceled",
		zap.String("booking_id", bookingID.String()),
		zap.String("room_id", result.RoomID.String()),
		zap.String("actor_id", actor.UserID.String()),
	)

	return result, nil
}

func (s *bookingService) TransferStudent(ctx context.Context, actor entity.Actor, bookingID, roomID uuid.UUID) (*TransferResult, error) {
	if err := authorize(actor, staffRoles...); err != nil {
		return nil, err
	}

	var result *TransferResult

	err := s.tx.run(ctx, "transfer", func(tx *repository.Repository) error {
		booking, err := lockActiveBooking(ctx, tx, bookingID)
		if err != nil {
			return err
		}
		if booking.RoomID == roomID {
			return ErrSameRoom
		}

		student, err := tx.Student.FindByID(ctx, booking.StudentID)
		if err != nil {
			return err
		}
		if student == nil {
			return ErrStudentNotFound
		}

		rooms, err := lockRooms(ctx, tx, booking.RoomID, roomID)
		if err != nil {
			return err
		}
		if rooms[roomID] == nil {
			return ErrRoomNotFound
		}
		if err := checkAdmission(rooms[roomID], student.Gender); err != nil {
			return err
		}

		target, err := tx.Room.ReserveSeat(ctx, roomID, student.Gender)
		if err != nil {
			return err
		}
		if target == nil {
			return ErrRoomFull
		}

		fromRoomID := booking.RoomID
		booking.RoomID = target.ID
		booking.UpdatedAt = time.Now()
		if err := tx.Booking.Update(ctx, booking); err != nil {
			return err
		}

		source, err := tx.Room.ReleaseSeat(ctx, fromRoomID)
		if err != nil {
			return err
		}
		if source == nil {
			return ErrRoomNotFound
		}

		transfer := &entity.Transfer{
			ID:         uuid.New(),
			BookingID:  booking.ID,
			FromRoomID: fromRoomID,
			ToRoomID:   target.ID,
			MovedBy:    actor.UserID,
			MovedAt:    booking.UpdatedAt,
		}
		if err := tx.Transfer.Create(ctx, transfer); err != nil {
			return err
		}

		result = &TransferResult{
			Transfer: transfer,
			Booking:  booking,
			FromRoom: source,
			ToRoom:   target,
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("transfer", err,
			zap.String("booking_id", bookingID.String()),
			zap.String("room_id", roomID.String()),
		)
	}

	s.metrics.Operation("transfer")
	s.log.Info("Student transferred",
		zap.String("booking_id", bookingID.String()),
		zap.String("from_room_id", result.FromRoom.ID.String()),
		zap.String("to_room_id", result.ToRoom.ID.String()),
		zap.String("actor_id", actor.UserID.String()),
	)

	return result, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor entity.Actor, bookingID uuid.UUID) (*BookingDetail, error) {
	if err := authorize(actor, staffRoles...); err != nil {
		return nil, err
	}

	var detail *BookingDetail

	err := s.tx.run(ctx, "get_booking", func(tx *repository.Repository) error {
		booking, err := tx.Booking.FindByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return ErrBookingNotFound
		}

		payments, err := tx.Payment.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}

		transfers, err := tx.Transfer.FindByBookingID(ctx, bookingID)
		if err != nil {
			return err
		}

		detail = &BookingDetail{
			Booking:   booking,
			Debt:      booking.Debt(),
			Payments:  payments,
			Transfers: transfers,
		}
		return nil
	})
	if err != nil {
		if !IsDomainError(err) {
			s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID.String()))
		}
		return nil, err
	}

	return detail, nil
}

// fail logs and counts an operation failure and returns err unchanged.
func (s *bookingService) fail(op string, err error, fields ...zap.Field) error {
	s.metrics.Rejected(op, rejectionReason(err))

	fields = append(fields, zap.String("operation", op), zap.Error(err))
	if IsDomainError(err) {
		s.log.Warn("Booking operation rejected", fields...)
	} else {
		s.log.Error("Booking operation failed", fields...)
	}
	return err
}

func checkAdmission(room *entity.Room, gender entity.Gender) error {
	if room.FreePlaces() == 0 {
		return ErrRoomFull
	}
	if !room.Admits(gender) {
		return ErrGenderMismatch
	}
	return nil
}

func priceStay(student *entity.Student, start, end time.Time, privileged bool) (decimal.Decimal, error) {
	return pricing.Total(pricing.Input{
		Start:      start,
		End:        end,
		UnitPrice:  student.StudentType.Price,
		Mode:       pricing.Mode(student.StudentType.BillingMode),
		Privileged: privileged,
	})
}

func lockActiveBooking(ctx context.Context, tx *repository.Repository, id uuid.UUID) (*entity.Booking, error) {
	booking, err := tx.Booking.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if !booking.IsActive() {
		return nil, ErrAlreadyClosed
	}
	return booking, nil
}

// lockRooms locks every room in ascending id order so that two transfers
// between the same pair of rooms cannot deadlock.
func lockRooms(ctx context.Context, tx *repository.Repository, ids ...uuid.UUID) (map[uuid.UUID]*entity.Room, error) {
	ordered := slices.Clone(ids)
	slices.SortFunc(ordered, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	rooms := make(map[uuid.UUID]*entity.Room, len(ordered))
	for _, id := range ordered {
		room, err := tx.Room.FindByIDForUpdate(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("lock rooms: %w", err)
		}
		rooms[id] = room
	}
	return rooms, nil
}

// checkout releases the booking's seat and persists its final state.
func checkout(ctx context.Context, tx *repository.Repository, booking *entity.Booking) (*CheckoutResult, error) {
	booking.UpdatedAt = time.Now()
	if err := tx.Booking.Update(ctx, booking); err != nil {
		return nil, err
	}

	room, err := tx.Room.ReleaseSeat(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	return &CheckoutResult{
		RoomID:      room.ID,
		PersonCount: room.PersonCount,
		RoomGender:  room.Gender,
		Booking:     booking,
	}, nil
}

package repository

import (
	"context"
	"errors"

	"dormitory-backend/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

var (
	// ErrActiveBookingExists is returned when the one-active-booking-per-student index rejects an insert.
	ErrActiveBookingExists = errors.New("student already has an active booking")
	// ErrEmailTaken is returned when a staff email is already registered.
	ErrEmailTaken = errors.New("email already registered")
)

const uniqueViolation = "23505"

type Repository struct {
	db  database.PgxIface
	log *zap.Logger

	User       UserRepository
	Session    SessionRepository
	Commandant CommandantRepository
	Room       RoomRepository
	Student    StudentRepository
	Privilege  PrivilegeRepository
	Booking    BookingRepository
	Payment    PaymentRepository
	Transfer   TransferRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := bind(db, log)
	repo.db = db
	return repo
}

func bind(db database.DBTX, log *zap.Logger) *Repository {
	return &Repository{
		log:        log,
		User:       NewUserRepository(db, log),
		Session:    NewSessionRepository(db, log),
		Commandant: NewCommandantRepository(db, log),
		Room:       NewRoomRepository(db, log),
		Student:    NewStudentRepository(db, log),
		Privilege:  NewPrivilegeRepository(db, log),
		Booking:    NewBookingRepository(db, log),
		Payment:    NewPaymentRepository(db, log),
		Transfer:   NewTransferRepository(db, log),
	}
}

// InTx runs fn with every repository bound to one transaction. Called on a
// repository that is already transactional, fn joins the current tx.
func (r *Repository) InTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		return fn(bind(tx, r.log))
	})
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return false
}

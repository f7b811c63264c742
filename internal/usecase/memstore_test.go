package usecase

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"sync"
	"testing"
	"time"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/data/repository"
	"dormitory-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var errStorageDown = errors.New("connection refused")

// memStore is an in-memory Store. Transactions are serialized by one lock
// and rolled back by restoring a snapshot.
type memStore struct {
	mu sync.Mutex

	rooms       map[uuid.UUID]entity.Room
	students    map[uuid.UUID]entity.Student
	privileges  map[uuid.UUID]entity.Privilege
	bookings    map[uuid.UUID]entity.Booking
	users       map[uuid.UUID]entity.User
	payments    []entity.Payment
	transfers   []entity.Transfer
	commandants []entity.Commandant

	txCalls int
	// failTx makes the next n transactions fail before running.
	failTx int
	// failBookingCreate makes every booking insert fail with a storage error.
	failBookingCreate bool
}

type memSnapshot struct {
	rooms       map[uuid.UUID]entity.Room
	students    map[uuid.UUID]entity.Student
	privileges  map[uuid.UUID]entity.Privilege
	bookings    map[uuid.UUID]entity.Booking
	users       map[uuid.UUID]entity.User
	payments    []entity.Payment
	transfers   []entity.Transfer
	commandants []entity.Commandant
}

func newMemStore() *memStore {
	return &memStore{
		rooms:      map[uuid.UUID]entity.Room{},
		students:   map[uuid.UUID]entity.Student{},
		privileges: map[uuid.UUID]entity.Privilege{},
		bookings:   map[uuid.UUID]entity.Booking{},
		users:      map[uuid.UUID]entity.User{},
	}
}

func (m *memStore) InTx(ctx context.Context, fn func(tx *repository.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txCalls++
	if m.failTx > 0 {
		m.failTx--
		return errStorageDown
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	snap := m.snapshot()
	repo := &repository.Repository{
		Room:       memRooms{m},
		Student:    memStudents{m},
		Privilege:  memPrivileges{m},
		Booking:    memBookings{m},
		Payment:    memPayments{m},
		Transfer:   memTransfers{m},
		User:       memUsers{m},
		Commandant: memCommandants{m},
	}

	if err := fn(repo); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		rooms:       maps.Clone(m.rooms),
		students:    maps.Clone(m.students),
		privileges:  maps.Clone(m.privileges),
		bookings:    maps.Clone(m.bookings),
		users:       maps.Clone(m.users),
		payments:    slices.Clone(m.payments),
		transfers:   slices.Clone(m.transfers),
		commandants: slices.Clone(m.commandants),
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.rooms = s.rooms
	m.students = s.students
	m.privileges = s.privileges
	m.bookings = s.bookings
	m.users = s.users
	m.payments = s.payments
	m.transfers = s.transfers
	m.commandants = s.commandants
}

// Fixtures and readers used by the tests.

func (m *memStore) addRoom(number string, capacity, occupants int, gender entity.Gender) entity.Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	room := entity.Room{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New()},
		BuildingID:   uuid.New(),
		Number:       number,
		Capacity:     capacity,
		PersonCount:  occupants,
		IsFull:       occupants == capacity,
		Gender:       gender,
	}
	m.rooms[room.ID] = room
	return room
}

func (m *memStore) addStudent(name string, gender entity.Gender, mode entity.BillingMode, price string) entity.Student {
	m.mu.Lock()
	defer m.mu.Unlock()

	student := entity.Student{
		BaseSimple: entity.BaseSimple{ID: uuid.New()},
		Name:       name,
		Gender:     gender,
		StudentType: entity.StudentType{
			ID:          uuid.New(),
			Type:        "local",
			Price:       decimal.RequireFromString(price),
			BillingMode: mode,
		},
	}
	student.StudentTypeID = student.StudentType.ID
	m.students[student.ID] = student
	return student
}

func (m *memStore) addPrivilege(name string) entity.Privilege {
	m.mu.Lock()
	defer m.mu.Unlock()

	privilege := entity.Privilege{ID: uuid.New(), Name: name}
	m.privileges[privilege.ID] = privilege
	return privilege
}

func (m *memStore) room(id uuid.UUID) entity.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rooms[id]
}

func (m *memStore) booking(id uuid.UUID) entity.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id]
}

func (m *memStore) countBookings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

func (m *memStore) paymentsSum(bookingID uuid.UUID) decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	sum := decimal.Zero
	for _, p := range m.payments {
		if p.BookingID == bookingID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum
}

// setBooking overwrites a stored booking, e.g. to preload a payment state.
func (m *memStore) setBooking(b entity.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings[b.ID] = b
}

// memRooms applies the same predicates as the SQL in room_repo.go through
// entity.Room.Admits, Reserve and Release. The store mutex stands in for the
// row locks, the SQL path itself is covered by the repository tests.
type memRooms struct{ m *memStore }

func (r memRooms) FindByID(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	room, ok := r.m.rooms[id]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

func (r memRooms) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Room, error) {
	return r.FindByID(ctx, id)
}

func (r memRooms) ReserveSeat(_ context.Context, id uuid.UUID, gender entity.Gender) (*entity.Room, error) {
	room, ok := r.m.rooms[id]
	if !ok || !room.Admits(gender) || !room.Reserve(gender) {
		return nil, nil
	}
	r.m.rooms[id] = room
	return &room, nil
}

func (r memRooms) ReleaseSeat(_ context.Context, id uuid.UUID) (*entity.Room, error) {
	room, ok := r.m.rooms[id]
	if !ok {
		return nil, nil
	}
	room.Release()
	r.m.rooms[id] = room
	return &room, nil
}

type memStudents struct{ m *memStore }

func (r memStudents) FindByID(_ context.Context, id uuid.UUID) (*entity.Student, error) {
	student, ok := r.m.students[id]
	if !ok {
		return nil, nil
	}
	return &student, nil
}

type memPrivileges struct{ m *memStore }

func (r memPrivileges) FindByID(_ context.Context, id uuid.UUID) (*entity.Privilege, error) {
	privilege, ok := r.m.privileges[id]
	if !ok {
		return nil, nil
	}
	return &privilege, nil
}

type memBookings struct{ m *memStore }

func (r memBookings) Create(_ context.Context, booking *entity.Booking) error {
	if r.m.failBookingCreate {
		return errStorageDown
	}
	for _, b := range r.m.bookings {
		if b.StudentID == booking.StudentID && b.IsActive() && booking.IsActive() {
			return repository.ErrActiveBookingExists
		}
	}
	r.m.bookings[booking.ID] = *booking
	return nil
}

func (r memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	booking, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &booking, nil
}

func (r memBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r memBookings) FindActiveByStudentID(_ context.Context, studentID uuid.UUID) (*entity.Booking, error) {
	for _, b := range r.m.bookings {
		if b.StudentID == studentID && b.IsActive() {
			return &b, nil
		}
	}
	return nil, nil
}

func (r memBookings) Update(_ context.Context, booking *entity.Booking) error {
	if _, ok := r.m.bookings[booking.ID]; !ok {
		return errors.New("booking not found")
	}
	if booking.Payed.GreaterThan(booking.TotalPrice) {
		return errors.New("check constraint violated: payed <= total_price")
	}
	r.m.bookings[booking.ID] = *booking
	return nil
}

func (r memBookings) FindDebtors(_ context.Context) ([]repository.DebtorRow, error) {
	var rows []repository.DebtorRow
	for _, b := range r.m.bookings {
		if b.Status == entity.BookingStatusCanceled || !b.Payed.LessThan(b.TotalPrice) {
			continue
		}
		student := r.m.students[b.StudentID]
		rows = append(rows, repository.DebtorRow{
			BookingID:  b.ID,
			Student:    student.FullName(),
			Building:   "Main",
			RoomNumber: r.m.rooms[b.RoomID].Number,
			StartDate:  b.StartDate,
			EndDate:    b.EndDate,
			Status:     b.Status,
			TotalPrice: b.TotalPrice,
			Payed:      b.Payed,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Student < rows[j].Student })
	return rows, nil
}

type memPayments struct{ m *memStore }

func (r memPayments) Create(_ context.Context, payment *entity.Payment) error {
	r.m.payments = append(r.m.payments, *payment)
	return nil
}

func (r memPayments) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	var payments []*entity.Payment
	for i := len(r.m.payments) - 1; i >= 0; i-- {
		if p := r.m.payments[i]; p.BookingID == bookingID {
			payments = append(payments, &p)
		}
	}
	return payments, nil
}

type memTransfers struct{ m *memStore }

func (r memTransfers) Create(_ context.Context, transfer *entity.Transfer) error {
	r.m.transfers = append(r.m.transfers, *transfer)
	return nil
}

func (r memTransfers) FindByBookingID(_ context.Context, bookingID uuid.UUID) ([]*entity.Transfer, error) {
	var transfers []*entity.Transfer
	for _, t := range r.m.transfers {
		if t.BookingID == bookingID {
			transfers = append(transfers, &t)
		}
	}
	return transfers, nil
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, user *entity.User) error {
	for _, u := range r.m.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	r.m.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

type memCommandants struct{ m *memStore }

func (r memCommandants) Create(_ context.Context, commandant *entity.Commandant) error {
	r.m.commandants = append(r.m.commandants, *commandant)
	return nil
}

// Shared test helpers.

var (
	adminActor   = entity.Actor{UserID: uuid.New(), Role: entity.RoleAdmin}
	managerActor = entity.Actor{UserID: uuid.New(), Role: entity.RoleManager}
)

func testConfig(t *testing.T) *utils.Config {
	t.Helper()
	return &utils.Config{
		Booking: utils.BookingConfig{ProgramEnd: day(t, "2024-06-30")},
		Storage: utils.StorageConfig{Timeout: time.Second, RetryBackoff: time.Millisecond},
	}
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func newTestServices(t *testing.T) (*memStore, *Service) {
	t.Helper()
	store := newMemStore()
	return store, NewService(store, testConfig(t), nil, zap.NewNop())
}

func seat(t *testing.T, svc *Service, student entity.Student, room entity.Room, start string) *entity.Booking {
	t.Helper()
	res, err := svc.Booking.SeatStudent(context.Background(), managerActor, SeatInput{
		StudentID: student.ID,
		RoomID:    room.ID,
		StartDate: day(t, start),
	})
	require.NoError(t, err)
	return res.Booking
}

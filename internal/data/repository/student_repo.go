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

type StudentRepository interface {
	// FindByID returns the student with its student type filled in.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error)
}

type studentRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewStudentRepository(db database.DBTX, log *zap.Logger) StudentRepository {
	return &studentRepository{
		db:  db,
		log: log.With(zap.String("repository", "student")),
	}
}

func (r *studentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Student, error) {
	query := `
		SELECT s.id, s.name, s.last_name, s.gender, s.student_type_id, s.created_at,
		       st.id, st.type, st.price, st.billing_mode
		FROM students s
		JOIN student_types st ON st.id = s.student_type_id
		WHERE s.id = $1
	`

	var student entity.Student
	err := r.db.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.Name,
		&student.LastName,
		&student.Gender,
		&student.StudentTypeID,
		&student.CreatedAt,
		&student.StudentType.ID,
		&student.StudentType.Type,
		&student.StudentType.Price,
		&student.StudentType.BillingMode,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find student", zap.Error(err), zap.String("student_id", id.String()))
		return nil, fmt.Errorf("find student %s: %w", id, err)
	}

	return &student, nil
}

package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillingMode string

const (
	BillingMonthly BillingMode = "monthly"
	BillingDaily   BillingMode = "daily"
)

// StudentType is the price tier of a student: a unit price charged per month or per day.
type StudentType struct {
	ID          uuid.UUID       `db:"id"`
	Type        string          `db:"type"` // foreigner, local
	Price       decimal.Decimal `db:"price"`
	BillingMode BillingMode     `db:"billing_mode"`
}

type Student struct {
	BaseSimple
	Name          string      `db:"name"`
	LastName      string      `db:"last_name"`
	Gender        Gender      `db:"gender"`
	StudentTypeID uuid.UUID   `db:"student_type_id"`
	StudentType   StudentType `db:"-"`
}

func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.Name
	}
	return s.Name + " " + s.LastName
}

type Privilege struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
}

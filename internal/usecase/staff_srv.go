package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dormitory-backend/internal/data/entity"
	"dormitory-backend/internal/data/repository"
	"dormitory-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StaffInput struct {
	Email      string
	FirstName  string
	LastName   string
	Phone      *string
	Password   string
	Role       entity.UserRole
	BuildingID *uuid.UUID // commandants only
}

// StaffHook runs inside the creating transaction right after the user row
// is written. A hook error rolls the whole creation back.
type StaffHook func(ctx context.Context, tx *repository.Repository, user *entity.User, in StaffInput) error

// CommandantProfileHook gives every commandant a commandant profile.
func CommandantProfileHook(ctx context.Context, tx *repository.Repository, user *entity.User, in StaffInput) error {
	if user.Role != entity.RoleCommandant {
		return nil
	}
	return tx.Commandant.Create(ctx, &entity.Commandant{
		UserID:     user.ID,
		BuildingID: in.BuildingID,
	})
}

type StaffService interface {
	CreateStaff(ctx context.Context, actor entity.Actor, in StaffInput) (*entity.User, error)
}

type staffService struct {
	tx    *txRunner
	hooks []StaffHook
	log   *zap.Logger
}

func NewStaffService(store Store, config *utils.Config, log *zap.Logger, hooks ...StaffHook) StaffService {
	log = log.With(zap.String("service", "staff"))
	return &staffService{
		tx:    newTxRunner(store, config.Storage, log),
		hooks: hooks,
		log:   log,
	}
}

func (s *staffService) CreateStaff(ctx context.Context, actor entity.Actor, in StaffInput) (*entity.User, error) {
	if err := authorize(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}

	switch in.Role {
	case entity.RoleAdmin, entity.RoleManager, entity.RoleCommandant:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}

	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		PasswordHash: hashedPassword,
		Role:         in.Role,
		IsActive:     true,
	}

	err = s.tx.run(ctx, "create_staff", func(tx *repository.Repository) error {
		existing, err := tx.User.FindByEmail(ctx, user.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrEmailTaken
		}

		if err := tx.User.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrEmailTaken) {
				return ErrEmailTaken
			}
			return err
		}

		for _, hook := range s.hooks {
			if err := hook(ctx, tx, user, in); err != nil {
				return fmt.Errorf("post-create hook: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if IsDomainError(err) {
			s.log.Warn("Staff creation rejected", zap.Error(err), zap.String("email", user.Email))
		} else {
			s.log.Error("Failed to create staff", zap.Error(err), zap.String("email", user.Email))
		}
		return nil, err
	}

	s.log.Info("Staff created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("actor_id", actor.UserID.String()),
	)
	return user, nil
}

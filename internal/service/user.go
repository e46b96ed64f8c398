package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/hash"
	"github.com/vmkazarin/online_store/internal/logging"
	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/mykafka"
	"github.com/vmkazarin/online_store/internal/repo"
	"github.com/vmkazarin/online_store/internal/transport"
)

type UserService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (s *UserService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) UpdateMe(ctx context.Context, userID uint, req transport.UpdateProfileRequest) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLen {
			return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
		}
		pwHash, err := hash.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = pwHash
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Deactivate blocks future logins. Existing access tokens keep working until
// they expire, mirroring how LogOut treats them.
func (s *UserService) Deactivate(ctx context.Context, userID uint) error {
	if err := s.Repo.DeactivateUser(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return err
	}

	publish(ctx, s.Producer, mykafka.TopicUserEvents, fmt.Sprint(userID), map[string]any{
		"type":    "user_deactivated",
		"user_id": userID,
	})
	logging.FromContext(ctx).Info("user_deactivated", "user_id", userID)
	return nil
}

func (s *UserService) UpdateRole(ctx context.Context, targetID uint, role string) error {
	if role != models.RoleAdmin && role != models.RoleCustomer {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}
	if err := s.Repo.UpdateUserRole(ctx, targetID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, targetID)
		}
		return err
	}

	publish(ctx, s.Producer, mykafka.TopicUserEvents, fmt.Sprint(targetID), map[string]any{
		"type":    "user_role_updated",
		"user_id": targetID,
		"role":    role,
	})
	logging.FromContext(ctx).Info("user_role_updated", "user_id", targetID, "role", role)
	return nil
}

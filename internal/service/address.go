package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/vmkazarin/online_store/internal/models"
	"github.com/vmkazarin/online_store/internal/repo"
	"github.com/vmkazarin/online_store/internal/transport"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func (s *AddressService) Create(ctx context.Context, userID uint, req transport.CreateAddressRequest) (*models.Address, error) {
	if strings.TrimSpace(req.Street) == "" || strings.TrimSpace(req.City) == "" || strings.TrimSpace(req.Country) == "" {
		return nil, fmt.Errorf("%w: street, city and country are required", ErrValidation)
	}

	addr := models.Address{
		UserID:     userID,
		Street:     strings.TrimSpace(req.Street),
		City:       strings.TrimSpace(req.City),
		State:      strings.TrimSpace(req.State),
		Country:    strings.TrimSpace(req.Country),
		PostalCode: strings.TrimSpace(req.PostalCode),
	}
	if err := s.Repo.CreateAddress(ctx, &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.Repo.ListAddresses(ctx, userID)
}

// Patch hides foreign addresses behind NotFound so callers cannot tell which
// address IDs belong to other users.
func (s *AddressService) Patch(ctx context.Context, userID, id uint, req transport.PatchAddressRequest) (*models.Address, error) {
	addr, err := s.Repo.GetAddress(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: address %d", ErrNotFound, id)
		}
		return nil, err
	}
	if addr.UserID != userID {
		return nil, fmt.Errorf("%w: address %d", ErrNotFound, id)
	}

	if req.Street != nil {
		addr.Street = strings.TrimSpace(*req.Street)
	}
	if req.City != nil {
		addr.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		addr.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		addr.Country = strings.TrimSpace(*req.Country)
	}
	if req.PostalCode != nil {
		addr.PostalCode = strings.TrimSpace(*req.PostalCode)
	}
	if strings.TrimSpace(addr.Street) == "" || strings.TrimSpace(addr.City) == "" || strings.TrimSpace(addr.Country) == "" {
		return nil, fmt.Errorf("%w: street, city and country are required", ErrValidation)
	}

	if err := s.Repo.SaveAddress(ctx, addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func (s *AddressService) Delete(ctx context.Context, userID, id uint) error {
	if err := s.Repo.DeleteAddress(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: address %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

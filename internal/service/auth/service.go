package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sevaqueue/seva-api/internal/model"
	"github.com/sevaqueue/seva-api/internal/repository"
	"github.com/sevaqueue/seva-api/pkg/auth"
	apperrors "github.com/sevaqueue/seva-api/pkg/errors"
	"github.com/sevaqueue/seva-api/pkg/security"
)

type Service struct {
	clerks repository.ClerkRepository
	jwtSvc auth.JWTService
	hasher security.PasswordHasher
}

func NewService(clerks repository.ClerkRepository, jwtSvc auth.JWTService, hasher security.PasswordHasher) *Service {
	return &Service{
		clerks: clerks,
		jwtSvc: jwtSvc,
		hasher: hasher,
	}
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	clerk, err := s.clerks.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	if err := s.hasher.Compare(clerk.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(fmt.Errorf("invalid credentials"))
	}

	token, err := s.jwtSvc.GenerateAccessToken(clerk.ID.String(), clerk.Email, string(clerk.Role), clerk.DepartmentID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{Token: token, Clerk: clerk}, nil
}

func (s *Service) ValidateToken(token string) (*auth.Claims, error) {
	return s.jwtSvc.ValidateToken(token)
}

// CreateClerk provisions a clerk or admin account. Only the bcrypt hash
// of the password is stored.
func (s *Service) CreateClerk(ctx context.Context, req *model.CreateClerkRequest) (*model.Clerk, error) {
	if _, err := s.clerks.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("clerk email is already registered", nil)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	clerk := &model.Clerk{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
	}

	if err := s.clerks.Create(ctx, clerk); err != nil {
		return nil, apperrors.Internal(err)
	}
	return clerk, nil
}

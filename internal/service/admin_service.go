package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/courselog/courselog-api/internal/models"
	appErrors "github.com/courselog/courselog-api/pkg/errors"
)

type adminUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Activate(ctx context.Context, id string) error
	List(ctx context.Context, filter models.UserFilter) ([]models.User, error)
}

// AdminService covers account approval and user listings.
type AdminService struct {
	repo   adminUserRepository
	logger *zap.Logger
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(repo adminUserRepository, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, logger: logger}
}

// ApproveUser activates a pending account. Approving an account that is
// already active is rejected rather than treated as a no-op.
func (s *AdminService) ApproveUser(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid user id")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	if user.IsActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "account is already active")
	}

	if err := s.repo.Activate(ctx, userID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate account")
	}
	user.IsActive = true

	s.logger.Info("account approved", zap.String("user_id", userID))
	return user, nil
}

// ListUsers returns accounts matching the filter.
func (s *AdminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, error) {
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

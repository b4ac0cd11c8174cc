package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/mmcdole/campus/internal/domain"
)

const msgAdminOnly = "Unauthorized: Please log in as an admin."

// UserService is the admin view of accounts
type UserService struct {
	repo   domain.UserRepository
	logger *slog.Logger
}

// NewUserService creates a new user service
func NewUserService(repo domain.UserRepository, logger *slog.Logger) *UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{repo: repo, logger: logger}
}

// List returns every account with roles normalized
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to fetch users", "error", err)
		if errors.Is(err, domain.ErrAccessDenied) {
			return nil, &domain.Failure{Msg: msgAdminOnly, Err: err}
		}
		return nil, &domain.Failure{
			Msg: fmt.Sprintf("Error fetching users: %s", domain.Message(err, "Unknown error")),
			Err: err,
		}
	}
	for i := range users {
		users[i].Role = domain.NormalizeRole(users[i].Role)
	}
	return users, nil
}

// Enrollments returns every enrollment row
func (s *UserService) Enrollments(ctx context.Context) ([]domain.RawEnrollment, error) {
	rows, err := s.repo.ListEnrollments(ctx)
	if err != nil {
		s.logger.Error("failed to fetch enrollments", "error", err)
		return nil, domain.Fail(err, "Failed to load enrollments")
	}
	return rows, nil
}

// Delete removes the account with email
func (s *UserService) Delete(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", &domain.Failure{Msg: "User email is missing. Cannot delete.", Err: domain.ErrValidation}
	}
	msg, err := s.repo.DeleteUser(ctx, email)
	if err != nil {
		s.logger.Error("failed to delete user", "email", email, "error", err)
		return "", domain.Fail(err, "Failed to delete user")
	}
	s.logger.Info("deleted user", "email", email)
	return msg, nil
}

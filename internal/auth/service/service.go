// Package service implements authentication: credential checks, token
// issuing, and password rotation.
package service

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"crm_portal_backend/internal/auth/repository"
	"crm_portal_backend/internal/auth/token"
	"crm_portal_backend/internal/auth/transport"
	"crm_portal_backend/platform/apperr"
	"crm_portal_backend/platform/logger"
)

// Service orchestrates authentication operations.
type Service struct {
	repo   repository.Repository
	issuer *token.Issuer
	log    *logger.Logger
}

// New creates a new auth service.
func New(repo repository.Repository, issuer *token.Issuer, log *logger.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, log: log}
}

// Login verifies credentials and issues an access token. Lookup and bcrypt
// failures both report invalid credentials so the response does not leak
// which emails exist.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		s.log.AuthEvent("login", req.Email, false, "unknown email")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}
	if user.PasswordHash == nil {
		s.log.AuthEvent("login", req.Email, false, "account not activated")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login", req.Email, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	access, err := s.issuer.Issue(user.ID, user.Email, []string{user.Role})
	if err != nil {
		return transport.LoginResponse{}, apperr.Wrap(apperr.KindInternal, "could not issue token", err)
	}

	s.log.AuthEvent("login", req.Email, true, "")
	return transport.LoginResponse{
		AccessToken: access.Token,
		ExpiresAt:   access.ExpiresAt,
		User:        toUserResponse(user),
	}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// ChangePassword rotates the user's password after verifying the current one.
// Accounts created by conversion carry a one-time password and must pass
// through here before regular use.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req transport.ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.PasswordHash == nil {
		return apperr.Conflict("account has no password set")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		s.log.AuthEvent("change_password", user.Email, false, "wrong current password")
		return apperr.Unauthorized("current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "could not hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	s.log.AuthEvent("change_password", user.Email, true, "")
	return nil
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:                 u.ID,
		CompanyID:          u.CompanyID,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Role:               u.Role,
		MustChangePassword: u.MustChangePassword,
	}
}

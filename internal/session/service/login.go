package service

import (
	"context"
	"strings"

	"nexuscomply/internal/backend"
	"nexuscomply/internal/session/store"
	"nexuscomply/pkg/domain"
	dErrors "nexuscomply/pkg/domain-errors"
	"nexuscomply/pkg/requestcontext"
	"nexuscomply/pkg/validation"
)

const msgInvalidCredentials = "invalid username or password"

// Login authenticates against the backend and persists the session. The
// failure message never tells an unknown user apart from a wrong password.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.Principal, error) {
	username = strings.TrimSpace(username)
	if err := validation.Validate(loginInput{Username: username, Password: password}); err != nil {
		s.countLogin("invalid")
		return nil, err
	}

	resp, err := s.api.Login(ctx, backend.LoginRequest{Username: username, Password: password})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) || dErrors.HasCode(err, dErrors.CodeForbidden) {
			s.countLogin("rejected")
			s.logger.InfoContext(ctx, "login rejected", "request_id", requestcontext.RequestID(ctx))
			return nil, &dErrors.Error{Code: dErrors.CodeUnauthorized, Message: msgInvalidCredentials, Err: err}
		}
		s.countLogin("error")
		return nil, err
	}

	p := s.principalFrom(ctx, resp)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.slots.Save(ctx, store.FromPrincipal(p)); err != nil {
		s.countLogin("error")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist session")
	}
	s.principal = p
	s.setAuthenticated(true)
	s.countLogin("ok")
	s.logger.InfoContext(ctx, "login",
		"username", p.Username,
		"role", p.Role,
		"password_change_required", p.PasswordChangeRequired,
		"request_id", requestcontext.RequestID(ctx),
	)
	return p.Clone(), nil
}

func (s *Service) principalFrom(ctx context.Context, resp *backend.LoginResponse) *domain.Principal {
	role, aliased, ok := domain.ParseRole(resp.Role)
	switch {
	case !ok:
		// Unknown roles still sign in but pass no role check.
		role = domain.Role(resp.Role)
		s.logger.WarnContext(ctx, "backend returned unknown role", "role", resp.Role, "username", resp.Username)
	case aliased:
		s.logger.WarnContext(ctx, "backend returned legacy role spelling", "role", resp.Role, "canonical", role)
	}
	return &domain.Principal{
		Username:               resp.Username,
		Email:                  resp.Email,
		Role:                   role,
		Region:                 resp.Region,
		FullName:               resp.FullName,
		PasswordChangeRequired: resp.PasswordChangeRequired,
		Token:                  resp.Token,
	}
}

// ChangePassword changes the signed-in user's password. Mismatched or blank
// input fails locally. On success a forced change is considered done.
func (s *Service) ChangePassword(ctx context.Context, current, newPassword, confirm string) error {
	in := changePasswordInput{CurrentPassword: current, NewPassword: newPassword, ConfirmPassword: confirm}
	if err := validation.Validate(in); err != nil {
		s.countPasswordChange("invalid")
		return err
	}
	p := s.Current(ctx)
	if p == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "not signed in")
	}

	err := s.api.ChangePassword(ctx, backend.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     newPassword,
		ConfirmPassword: confirm,
	})
	if err != nil {
		s.countPasswordChange("rejected")
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.countPasswordChange("ok")
	s.logger.InfoContext(ctx, "password changed", "username", p.Username, "request_id", requestcontext.RequestID(ctx))
	// The session may have been replaced or dropped while the call was in flight.
	if s.principal == nil || s.principal.Token != p.Token || !s.principal.PasswordChangeRequired {
		return nil
	}
	s.principal.PasswordChangeRequired = false
	if err := s.slots.Save(ctx, store.FromPrincipal(s.principal)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "password changed but the session could not be saved")
	}
	return nil
}

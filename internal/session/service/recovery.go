package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"nexuscomply/internal/backend"
	dErrors "nexuscomply/pkg/domain-errors"
	"nexuscomply/pkg/requestcontext"
	"nexuscomply/pkg/validation"
)

// RecoveryState is the client-side state of one recovery token.
//
//	Requested -> Validating -> Valid | Invalid
//	Valid -> Resetting -> Consumed
//
// Invalid and Consumed are terminal: the token is never sent again.
type RecoveryState string

const (
	RecoveryRequested  RecoveryState = "requested"
	RecoveryValidating RecoveryState = "validating"
	RecoveryValid      RecoveryState = "valid"
	RecoveryInvalid    RecoveryState = "invalid"
	RecoveryResetting  RecoveryState = "resetting"
	RecoveryConsumed   RecoveryState = "consumed"
)

// Terminal reports whether no further transition is allowed.
func (r RecoveryState) Terminal() bool {
	return r == RecoveryInvalid || r == RecoveryConsumed
}

const msgInvalidResetToken = "invalid or expired reset token"

var errResetInProgress = dErrors.New(dErrors.CodeRequest, "a password reset with this token is already in progress")

type recoveryEntry struct {
	state    RecoveryState
	email    string
	issuedAt time.Time
}

// RequestPasswordReset asks the backend to send a recovery token to email.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (*ResetRequest, error) {
	email = strings.TrimSpace(email)
	if err := validation.Validate(forgotPasswordInput{Email: email}); err != nil {
		s.countRecovery("request", "invalid")
		return nil, err
	}

	resp, err := s.api.ForgotPassword(ctx, backend.ForgotPasswordRequest{Email: email})
	if err != nil {
		s.countRecovery("request", "error")
		return nil, err
	}

	out := &ResetRequest{Email: resp.Email, ResetToken: resp.ResetToken, IssuedAt: s.now()}
	if out.ResetToken != "" {
		s.mu.Lock()
		s.recovery[out.ResetToken] = &recoveryEntry{state: RecoveryRequested, email: out.Email, issuedAt: out.IssuedAt}
		s.mu.Unlock()
	}
	s.countRecovery("request", "ok")
	s.logger.InfoContext(ctx, "password reset requested",
		"token_issued", out.ResetToken != "",
		"request_id", requestcontext.RequestID(ctx),
	)
	return out, nil
}

// ValidateResetToken checks a recovery token. Invalid tokens are a result;
// only a failure to reach the backend is an error. Tokens already known to
// be invalid or consumed are answered without a backend call.
func (s *Service) ValidateResetToken(ctx context.Context, token string) (*TokenValidation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return &TokenValidation{Valid: false}, nil
	}

	prev, ok := s.enter(token, RecoveryValidating)
	if !ok {
		if prev == RecoveryResetting {
			return nil, errResetInProgress
		}
		s.countRecovery("validate", "local")
		return &TokenValidation{Valid: false}, nil
	}

	valid, err := s.api.ValidateResetToken(ctx, token)
	if err != nil {
		s.leave(token, RecoveryValidating, prev)
		s.countRecovery("validate", "error")
		return nil, err
	}

	next := RecoveryInvalid
	if valid {
		next = RecoveryValid
	}
	s.leave(token, RecoveryValidating, next)
	s.countRecovery("validate", string(next))
	return &TokenValidation{Valid: valid}, nil
}

// ResetPassword consumes token and sets a new password. Input is checked
// locally first. A backend rejection marks the token invalid; a transport
// failure leaves it as it was so the user can retry.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	token = strings.TrimSpace(token)
	in := resetPasswordInput{Token: token, NewPassword: newPassword, ConfirmPassword: confirm}
	if err := validation.Validate(in); err != nil {
		s.countRecovery("reset", "invalid")
		return err
	}

	prev, ok := s.enter(token, RecoveryResetting)
	if !ok {
		if prev == RecoveryResetting {
			return errResetInProgress
		}
		s.countRecovery("reset", "local")
		return dErrors.New(dErrors.CodeUnauthorized, msgInvalidResetToken)
	}

	err := s.api.ResetPassword(ctx, backend.ResetPasswordRequest{
		Token:           token,
		NewPassword:     newPassword,
		ConfirmPassword: confirm,
	})
	if err == nil {
		s.leave(token, RecoveryResetting, RecoveryConsumed)
		s.countRecovery("reset", "ok")
		s.logger.InfoContext(ctx, "password reset completed", "request_id", requestcontext.RequestID(ctx))
		return nil
	}

	if status := backend.Status(err); status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		s.leave(token, RecoveryResetting, RecoveryInvalid)
		s.countRecovery("reset", "rejected")
		return &dErrors.Error{Code: dErrors.CodeUnauthorized, Message: msgInvalidResetToken, Err: err}
	}
	s.leave(token, RecoveryResetting, prev)
	s.countRecovery("reset", "error")
	return err
}

// RecoveryState returns the recorded state of token.
func (s *Service) RecoveryState(token string) (RecoveryState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.recovery[token]
	if !ok {
		return "", false
	}
	return e.state, true
}

// enter moves token into an in-flight state and returns the state to restore
// if the call fails in transport. It refuses terminal and busy tokens, in
// which case the blocking state is returned. An empty previous state means
// the token was not tracked.
func (s *Service) enter(token string, inflight RecoveryState) (RecoveryState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.recovery[token]
	if !ok {
		s.recovery[token] = &recoveryEntry{state: inflight, issuedAt: s.now()}
		return "", true
	}
	if e.state.Terminal() || e.state == RecoveryResetting {
		return e.state, false
	}
	prev := e.state
	e.state = inflight
	return prev, true
}

// leave applies next only if token is still in the in-flight state it
// entered, so a late answer never overwrites a terminal state.
func (s *Service) leave(token string, inflight, next RecoveryState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.recovery[token]
	if !ok || e.state != inflight {
		return
	}
	if next == "" {
		delete(s.recovery, token)
		return
	}
	e.state = next
}

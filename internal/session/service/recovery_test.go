package service

import (
	"net/http"

	"go.uber.org/mock/gomock"

	"nexuscomply/internal/backend"
	dErrors "nexuscomply/pkg/domain-errors"
)

func rejected(status int, msg string) error {
	return &dErrors.Error{Code: dErrors.CodeRequest, Message: msg, Err: &backend.StatusError{Status: status, Message: msg}}
}

func (s *ServiceSuite) TestRequestPasswordReset() {
	s.Run("email without @ fails locally", func() {
		_, err := s.service.RequestPasswordReset(s.ctx, "not-an-email")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal(`email must contain "@"`, err.Error())
	})

	s.Run("production backend withholds the token", func() {
		s.mockAPI.EXPECT().ForgotPassword(gomock.Any(), backend.ForgotPasswordRequest{Email: "a@b.com"}).
			Return(&backend.ForgotPasswordResponse{Email: "a@b.com"}, nil)

		req, err := s.service.RequestPasswordReset(s.ctx, "a@b.com")
		s.Require().NoError(err)
		s.Empty(req.ResetToken)
		s.Equal(s.now, req.IssuedAt)
	})

	s.Run("issued token is tracked as requested", func() {
		s.mockAPI.EXPECT().ForgotPassword(gomock.Any(), gomock.Any()).
			Return(&backend.ForgotPasswordResponse{Email: "a@b.com", ResetToken: "dev-token"}, nil)

		req, err := s.service.RequestPasswordReset(s.ctx, "a@b.com")
		s.Require().NoError(err)
		s.Equal("dev-token", req.ResetToken)
		state, ok := s.service.RecoveryState("dev-token")
		s.True(ok)
		s.Equal(RecoveryRequested, state)
	})
}

func (s *ServiceSuite) TestResetFlow() {
	s.mockAPI.EXPECT().ForgotPassword(gomock.Any(), gomock.Any()).
		Return(&backend.ForgotPasswordResponse{Email: "a@b.com", ResetToken: "tok"}, nil)
	s.mockAPI.EXPECT().ValidateResetToken(gomock.Any(), "tok").Return(true, nil)
	s.mockAPI.EXPECT().ResetPassword(gomock.Any(), backend.ResetPasswordRequest{
		Token: "tok", NewPassword: "abcdef", ConfirmPassword: "abcdef",
	}).Return(nil).Times(1)

	req, err := s.service.RequestPasswordReset(s.ctx, "a@b.com")
	s.Require().NoError(err)

	v, err := s.service.ValidateResetToken(s.ctx, req.ResetToken)
	s.Require().NoError(err)
	s.True(v.Valid)
	state, _ := s.service.RecoveryState("tok")
	s.Equal(RecoveryValid, state)

	s.Require().NoError(s.service.ResetPassword(s.ctx, "tok", "abcdef", "abcdef"))
	state, _ = s.service.RecoveryState("tok")
	s.Equal(RecoveryConsumed, state)

	err = s.service.ResetPassword(s.ctx, "tok", "abcdef", "abcdef")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized), "a consumed token cannot be reused")

	v, err = s.service.ValidateResetToken(s.ctx, "tok")
	s.Require().NoError(err)
	s.False(v.Valid, "consumed tokens are answered locally")
}

func (s *ServiceSuite) TestResetPasswordValidation() {
	err := s.service.ResetPassword(s.ctx, "tok", "ab", "ab")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Equal("newPassword must be at least 6 characters", err.Error())

	err = s.service.ResetPassword(s.ctx, "tok", "abcdef", "abcdeg")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, tracked := s.service.RecoveryState("tok")
	s.False(tracked, "local validation never touches the state machine")
}

func (s *ServiceSuite) TestValidateResetToken() {
	s.Run("invalid token is a result", func() {
		s.mockAPI.EXPECT().ValidateResetToken(gomock.Any(), "stale").Return(false, nil).Times(1)

		v, err := s.service.ValidateResetToken(s.ctx, "stale")
		s.Require().NoError(err)
		s.False(v.Valid)

		v, err = s.service.ValidateResetToken(s.ctx, "stale")
		s.Require().NoError(err)
		s.False(v.Valid, "invalid is terminal and answered locally")
	})

	s.Run("network failure is an error and leaves the token retryable", func() {
		gomock.InOrder(
			s.mockAPI.EXPECT().ValidateResetToken(gomock.Any(), "flaky").
				Return(false, dErrors.New(dErrors.CodeNetwork, "backend unreachable")),
			s.mockAPI.EXPECT().ValidateResetToken(gomock.Any(), "flaky").Return(true, nil),
		)

		_, err := s.service.ValidateResetToken(s.ctx, "flaky")
		s.True(dErrors.HasCode(err, dErrors.CodeNetwork))
		_, tracked := s.service.RecoveryState("flaky")
		s.False(tracked)

		v, err := s.service.ValidateResetToken(s.ctx, "flaky")
		s.Require().NoError(err)
		s.True(v.Valid)
	})

	s.Run("blank token is invalid without a call", func() {
		v, err := s.service.ValidateResetToken(s.ctx, "  ")
		s.Require().NoError(err)
		s.False(v.Valid)
	})
}

func (s *ServiceSuite) TestResetPasswordBackendRejection() {
	s.mockAPI.EXPECT().ResetPassword(gomock.Any(), gomock.Any()).
		Return(rejected(http.StatusBadRequest, "Token expired")).Times(1)

	err := s.service.ResetPassword(s.ctx, "expired", "abcdef", "abcdef")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	s.Equal("invalid or expired reset token", err.Error())
	state, _ := s.service.RecoveryState("expired")
	s.Equal(RecoveryInvalid, state)

	err = s.service.ResetPassword(s.ctx, "expired", "abcdef", "abcdef")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestResetPasswordNetworkFailureAllowsRetry() {
	s.mockAPI.EXPECT().ValidateResetToken(gomock.Any(), "tok").Return(true, nil)
	gomock.InOrder(
		s.mockAPI.EXPECT().ResetPassword(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeNetwork, "backend request timed out")),
		s.mockAPI.EXPECT().ResetPassword(gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err := s.service.ValidateResetToken(s.ctx, "tok")
	s.Require().NoError(err)

	err = s.service.ResetPassword(s.ctx, "tok", "abcdef", "abcdef")
	s.True(dErrors.HasCode(err, dErrors.CodeNetwork))
	state, _ := s.service.RecoveryState("tok")
	s.Equal(RecoveryValid, state)

	s.Require().NoError(s.service.ResetPassword(s.ctx, "tok", "abcdef", "abcdef"))
	state, _ = s.service.RecoveryState("tok")
	s.Equal(RecoveryConsumed, state)
}

func (s *ServiceSuite) TestResetPasswordServerErrorIsNotARejection() {
	s.mockAPI.EXPECT().ResetPassword(gomock.Any(), gomock.Any()).
		Return(rejected(http.StatusServiceUnavailable, "maintenance"))

	err := s.service.ResetPassword(s.ctx, "tok", "abcdef", "abcdef")
	s.True(dErrors.HasCode(err, dErrors.CodeRequest))
	_, tracked := s.service.RecoveryState("tok")
	s.False(tracked)
}

func (s *ServiceSuite) TestLogoutClearsRecoveryBookkeeping() {
	s.mockAPI.EXPECT().ValidateResetToken(gomock.Any(), "stale").Return(false, nil)
	_, err := s.service.ValidateResetToken(s.ctx, "stale")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Logout(s.ctx))
	_, tracked := s.service.RecoveryState("stale")
	s.False(tracked)
}

func (s *ServiceSuite) TestRecoveryStateTerminal() {
	s.True(RecoveryInvalid.Terminal())
	s.True(RecoveryConsumed.Terminal())
	s.False(RecoveryValid.Terminal())
	s.False(RecoveryRequested.Terminal())
}

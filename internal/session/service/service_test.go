package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.uber.org/mock/gomock"

	"nexuscomply/internal/backend"
	"nexuscomply/internal/session/service/mocks"
	"nexuscomply/internal/session/store"
	"nexuscomply/pkg/domain"
	dErrors "nexuscomply/pkg/domain-errors"
)

func (s *ServiceSuite) TestLogin() {
	s.Run("blank fields fail before any backend call", func() {
		_, err := s.service.Login(s.ctx, "   ", "secret")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.Login(s.ctx, "jdoe", "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejection is a generic auth error and nothing is persisted", func() {
		s.mockAPI.EXPECT().Login(gomock.Any(), backend.LoginRequest{Username: "jdoe", Password: "wrong"}).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "User not found"))

		_, err := s.service.Login(s.ctx, "jdoe", "wrong")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal("invalid username or password", err.Error())
		s.Nil(s.service.Current(s.ctx))
		_, loadErr := s.slots.Load(s.ctx)
		s.ErrorIs(loadErr, store.ErrNotFound)
	})

	s.Run("forbidden is reported the same way", func() {
		s.mockAPI.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeForbidden, "Account locked"))

		_, err := s.service.Login(s.ctx, "jdoe", "secret")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal("invalid username or password", err.Error())
	})

	s.Run("network failure passes through", func() {
		s.mockAPI.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNetwork, "backend unreachable"))

		_, err := s.service.Login(s.ctx, "jdoe", "secret")
		s.True(dErrors.HasCode(err, dErrors.CodeNetwork))
	})

	s.Run("success persists both slots and exposes a copy", func() {
		s.mockAPI.EXPECT().Login(gomock.Any(), backend.LoginRequest{Username: "jdoe", Password: "secret"}).
			Return(s.loginResponse("opaque-token"), nil)

		p, err := s.service.Login(s.ctx, " jdoe ", "secret")
		s.Require().NoError(err)
		s.Equal(domain.RoleNetworkAdmin, p.Role)
		s.Equal("opaque-token", p.Token)

		p.Role = domain.RoleAdmin
		s.Equal(domain.RoleNetworkAdmin, s.service.Current(s.ctx).Role)

		snap, err := s.slots.Load(s.ctx)
		s.Require().NoError(err)
		s.Equal("opaque-token", snap.Token)
		s.Equal("jdoe@example.com", snap.Profile.Email)
	})
}

func (s *ServiceSuite) TestLoginLegacyRoleSpelling() {
	resp := s.loginResponse("t")
	resp.Role = "procurment_lead"
	s.signIn(resp)

	s.Equal(domain.RoleProcurementLead, s.service.Current(s.ctx).Role)
}

func (s *ServiceSuite) TestLoginUnknownRoleSignsInWithoutPrivileges() {
	resp := s.loginResponse("t")
	resp.Role = "JANITOR"
	s.signIn(resp)

	p := s.service.Current(s.ctx)
	s.Require().NotNil(p)
	s.False(p.Role.IsValid())
}

func (s *ServiceSuite) TestLoginSlotFailure() {
	slots := mocks.NewMockSlots(s.ctrl)
	svc := NewService(s.mockAPI, slots, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.mockAPI.EXPECT().Login(gomock.Any(), gomock.Any()).Return(s.loginResponse("t"), nil)
	slots.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := svc.Login(s.ctx, "jdoe", "secret")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Nil(svc.Current(s.ctx))
}

func (s *ServiceSuite) TestLogout() {
	s.signIn(s.loginResponse("t"))

	s.Require().NoError(s.service.Logout(s.ctx))
	s.Nil(s.service.Current(s.ctx))
	s.Empty(s.service.BearerToken(s.ctx))
	_, err := s.slots.Load(s.ctx)
	s.ErrorIs(err, store.ErrNotFound)

	s.NoError(s.service.Logout(s.ctx), "logout is idempotent")
}

func (s *ServiceSuite) TestRestore() {
	s.Run("restores a persisted session", func() {
		token := s.jwtExpiringAt(s.now.Add(time.Hour))
		s.Require().NoError(s.slots.Save(s.ctx, store.Snapshot{
			Token:   token,
			Profile: store.Profile{Username: "jdoe", Role: domain.RoleAdmin, PasswordChangeRequired: true},
		}))

		s.Require().NoError(s.service.Restore(s.ctx))
		p := s.service.Current(s.ctx)
		s.Require().NotNil(p)
		s.Equal(domain.RoleAdmin, p.Role)
		s.True(p.PasswordChangeRequired)
		s.Equal(token, s.service.BearerToken(s.ctx))
	})

	s.Run("drops an expired persisted session", func() {
		s.Require().NoError(s.service.Logout(s.ctx))
		s.Require().NoError(s.slots.Save(s.ctx, store.Snapshot{
			Token:   s.jwtExpiringAt(s.now.Add(-time.Minute)),
			Profile: store.Profile{Username: "jdoe", Role: domain.RoleAdmin},
		}))

		s.Require().NoError(s.service.Restore(s.ctx))
		s.Nil(s.service.Current(s.ctx))
		_, err := s.slots.Load(s.ctx)
		s.ErrorIs(err, store.ErrNotFound)
	})

	s.Run("nothing persisted", func() {
		s.Require().NoError(s.service.Restore(s.ctx))
		s.Nil(s.service.Current(s.ctx))
	})
}

func (s *ServiceSuite) TestRestoreUnreadableSlotsAreCleared() {
	slots := mocks.NewMockSlots(s.ctrl)
	svc := NewService(s.mockAPI, slots, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	slots.EXPECT().Load(gomock.Any()).Return(nil, dErrors.New(dErrors.CodeInternal, "session slot could not be opened"))
	slots.EXPECT().Clear(gomock.Any()).Return(nil)

	s.NoError(svc.Restore(s.ctx))
	s.Nil(svc.Current(s.ctx))
}

func (s *ServiceSuite) TestCurrentDropsExpiredToken() {
	s.signIn(s.loginResponse(s.jwtExpiringAt(s.now.Add(30 * time.Minute))))
	s.NotNil(s.service.Current(s.ctx))

	s.now = s.now.Add(31 * time.Minute)
	s.Nil(s.service.Current(s.ctx))
	_, err := s.slots.Load(s.ctx)
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *ServiceSuite) TestInvalidate() {
	s.signIn(s.loginResponse("t"))

	s.service.Invalidate(context.Background(), "backend rejected token")
	s.Nil(s.service.Current(s.ctx))
	_, err := s.slots.Load(s.ctx)
	s.ErrorIs(err, store.ErrNotFound)

	s.service.Invalidate(context.Background(), "again")
}

func (s *ServiceSuite) TestChangePassword() {
	s.Run("mismatch fails locally", func() {
		err := s.service.ChangePassword(s.ctx, "old", "newpass", "other")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("confirmPassword must match newPassword", err.Error())
	})

	s.Run("requires a session", func() {
		err := s.service.ChangePassword(s.ctx, "old", "newpass", "newpass")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("success clears the forced change in memory and on disk", func() {
		resp := s.loginResponse("t")
		resp.PasswordChangeRequired = true
		s.signIn(resp)

		s.mockAPI.EXPECT().ChangePassword(gomock.Any(), backend.ChangePasswordRequest{
			CurrentPassword: "old", NewPassword: "newpass", ConfirmPassword: "newpass",
		}).Return(nil)

		s.Require().NoError(s.service.ChangePassword(s.ctx, "old", "newpass", "newpass"))
		s.False(s.service.Current(s.ctx).PasswordChangeRequired)
		snap, err := s.slots.Load(s.ctx)
		s.Require().NoError(err)
		s.False(snap.Profile.PasswordChangeRequired)
	})

	s.Run("backend rejection is returned", func() {
		s.mockAPI.EXPECT().ChangePassword(gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeRequest, "Current password is incorrect"))

		err := s.service.ChangePassword(s.ctx, "bad", "newpass", "newpass")
		s.Equal("Current password is incorrect", err.Error())
	})
}

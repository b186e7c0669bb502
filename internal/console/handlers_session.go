package console

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"nexuscomply/internal/access"
	"nexuscomply/pkg/domain"
	"nexuscomply/pkg/platform/httputil"
	"nexuscomply/pkg/requestcontext"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// SessionResponse describes the signed-in principal and where to go next.
type SessionResponse struct {
	Principal  *domain.Principal `json:"principal"`
	Navigation []access.NavItem  `json:"navigation"`
	Next       string            `json:"next"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func sessionResponse(p *domain.Principal) SessionResponse {
	next := access.DashboardPath
	if p.PasswordChangeRequired {
		next = access.ChangePasswordPath
	}
	return SessionResponse{Principal: p, Navigation: access.Navigation(p), Next: next}
}

// HandleLogin signs in and reports where the operator lands.
func (s *Server) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeJSON[loginRequest](w, r, s.logger, ctx, requestID)
	if !ok {
		return
	}

	p, err := s.session.Login(ctx, req.Username, req.Password)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, r, http.StatusOK, sessionResponse(p))
}

// HandleLogout ends the session. It succeeds when already signed out.
func (s *Server) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Logout(r.Context()); err != nil {
		s.logger.ErrorContext(r.Context(), "logout failed", "error", err, "request_id", requestcontext.RequestID(r.Context()))
		httputil.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the current principal.
func (s *Server) HandleMe(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, r, http.StatusOK, sessionResponse(access.PrincipalFrom(r.Context())))
}

// HandleNavigation lists the menu entries the principal may open.
func (s *Server) HandleNavigation(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, r, http.StatusOK, access.Navigation(access.PrincipalFrom(r.Context())))
}

// HandleChangePassword changes the password of the signed-in principal.
func (s *Server) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[changePasswordRequest](w, r, s.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := s.session.ChangePassword(ctx, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	p := s.session.Current(ctx)
	if p == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, sessionResponse(p))
}

// HandleForgotPassword asks the backend to issue a recovery token.
func (s *Server) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[forgotPasswordRequest](w, r, s.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	res, err := s.session.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusAccepted, res)
}

// HandleValidateResetToken reports whether a recovery token may still be used.
// An invalid token is a 200 with valid=false.
func (s *Server) HandleValidateResetToken(w http.ResponseWriter, r *http.Request) {
	res, err := s.session.ValidateResetToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, res)
}

// HandleResetPassword sets a new password with a recovery token.
func (s *Server) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeJSON[resetPasswordRequest](w, r, s.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := s.session.ResetPassword(ctx, req.Token, req.NewPassword, req.ConfirmPassword); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.WriteJSON(w, r, http.StatusOK, messageResponse{Message: "password has been reset, sign in with the new password"})
}

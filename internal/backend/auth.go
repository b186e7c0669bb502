package backend

import (
	"context"
	"net/http"
	"net/url"

	dErrors "nexuscomply/pkg/domain-errors"
)

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	resp, err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/login",
		path:   "/auth/login",
		body:   req,
	})
	if err != nil {
		return nil, err
	}
	var out LoginResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "backend login response carried no token")
	}
	return &out, nil
}

// ChangePassword changes the signed-in user's password.
func (c *Client) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	_, err := c.do(ctx, call{
		method:        http.MethodPost,
		route:         "/auth/change-password",
		path:          "/auth/change-password",
		body:          req,
		authenticated: true,
	})
	return err
}

// ForgotPassword asks the backend to issue a recovery token for email.
func (c *Client) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	resp, err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/forgot-password",
		path:   "/auth/forgot-password",
		body:   req,
	})
	if err != nil {
		return nil, err
	}
	var out ForgotPasswordResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	if out.Email == "" {
		out.Email = req.Email
	}
	return &out, nil
}

// ValidateResetToken reports whether token can still be used. A backend
// rejection (4xx) is an invalid token, not an error. Transport failures and
// 5xx answers are errors.
func (c *Client) ValidateResetToken(ctx context.Context, token string) (bool, error) {
	resp, err := c.do(ctx, call{
		method: http.MethodGet,
		route:  "/auth/validate-reset-token/{token}",
		path:   "/auth/validate-reset-token/" + url.PathEscape(token),
	})
	if err != nil {
		if status := Status(err); status >= 400 && status < 500 {
			return false, nil
		}
		return false, err
	}
	var out validateTokenResponse
	if err := decode(resp, &out); err != nil {
		return false, err
	}
	return out.Valid == nil || *out.Valid, nil
}

// ResetPassword consumes token and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		route:  "/auth/reset-password",
		path:   "/auth/reset-password",
		body:   req,
	})
	return err
}

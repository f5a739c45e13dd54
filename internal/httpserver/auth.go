package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pokeru-app/backend/internal/logging"
	mwauth "github.com/pokeru-app/backend/internal/middleware/auth"
	"github.com/pokeru-app/backend/internal/service"
	"github.com/pokeru-app/backend/internal/tokens"
	"github.com/pokeru-app/backend/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup rejected", "status", 400, "error", err)
		return detailError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Signup(ctx, req)
	if err != nil {
		return businessError(err)
	}

	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		return businessError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "login successful",
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"user": echo.Map{
			"username": res.User.Username,
			"user_uid": res.User.UID.String(),
		},
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mwauth.ClaimsFromContext(c)
	if err := h.Svc.Logout(ctx, claims.ID); err != nil {
		logging.FromContext(ctx).Error("logout failed", "error", err)
		return detailError(http.StatusInternalServerError, "could not revoke token")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

func (h *AuthHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.Svc.VerifyAccount(ctx, c.Param("token"))
	if err != nil {
		if errors.Is(err, tokens.ErrInvalidToken) {
			return detailError(http.StatusInternalServerError, "error occurred during verification")
		}
		return businessError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "account verified successfully"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mwauth.ClaimsFromContext(c)
	user, err := h.Svc.Repo.GetUserByUsername(ctx, claims.User.Username)
	if err != nil {
		return businessError(err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) PasswordResetRequest(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.RequestPasswordReset(ctx, req.Email); err != nil {
		logging.FromContext(ctx).Error("reset mail failed", "error", err)
		return detailError(http.StatusInternalServerError, "could not send reset email")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "please check your email for instructions to reset your password",
	})
}

func (h *AuthHTTP) PasswordResetConfirm(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.PasswordResetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusBadRequest, "invalid body")
	}

	err := h.Svc.ConfirmPasswordReset(ctx, c.Param("token"), req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		if errors.Is(err, tokens.ErrInvalidToken) {
			return detailError(http.StatusInternalServerError, "error occurred during password reset")
		}
		return businessError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "password reset successfully"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mwauth.ClaimsFromContext(c)
	accessToken, err := h.Svc.Refresh(ctx, claims)
	if err != nil {
		if errors.Is(err, tokens.ErrInvalidToken) {
			return detailError(http.StatusBadRequest, "invalid or expired token")
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"access_token": accessToken})
}

func (h *AuthHTTP) EditProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusBadRequest, "invalid body")
	}

	user := mwauth.UserFromContext(c)
	if _, err := h.Svc.UpdateProfile(ctx, user, req.Username); err != nil {
		return businessError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated successfully"})
}

func (h *AuthHTTP) DeleteAccount(c echo.Context) error {
	ctx := c.Request().Context()

	user := mwauth.UserFromContext(c)
	if err := h.Svc.DeleteAccount(ctx, user); err != nil {
		return businessError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "account deleted successfully"})
}

func (h *AuthHTTP) SendMail(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.SendMailRequest
	if err := c.Bind(&req); err != nil {
		return detailError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SendMail(ctx, req.Addresses); err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			return businessError(err)
		}
		logging.FromContext(ctx).Error("send mail failed", "error", err)
		return detailError(http.StatusInternalServerError, "could not send email")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "email sent successfully"})
}

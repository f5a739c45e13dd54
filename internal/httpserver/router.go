package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mwauth "github.com/pokeru-app/backend/internal/middleware/auth"
)

// AllRoles is the allowed-role set for routes any signed-in, verified
// member may hit. Narrower sets can be configured per route.
var AllRoles = []string{"admin", "staff", "premium_user", "basic_user"}

type Deps struct {
	AuthHandler *AuthHTTP
	GameHandler *GameHTTP
	Guard       *mwauth.TokenGuard
	Roles       *mwauth.RoleGate
	APIVersion  string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api/" + d.APIVersion)

	auth := api.Group("/auth")
	auth.POST("/signup", d.AuthHandler.Signup)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/logout", d.AuthHandler.Logout, d.Guard.RequireAccess)
	auth.GET("/verify/:token", d.AuthHandler.Verify)
	auth.GET("/me", d.AuthHandler.Me, d.Guard.RequireAccess)
	auth.POST("/password-reset-request", d.AuthHandler.PasswordResetRequest)
	auth.POST("/password-reset-confirm/:token", d.AuthHandler.PasswordResetConfirm)
	auth.PATCH("/edit-profile", d.AuthHandler.EditProfile, d.Guard.RequireAccess, d.Roles.Require(AllRoles...))
	auth.DELETE("/delete-account", d.AuthHandler.DeleteAccount, d.Guard.RequireAccess, d.Roles.Require(AllRoles...))
	auth.GET("/refresh_token", d.AuthHandler.Refresh, d.Guard.RequireRefresh)
	auth.POST("/send_mail", d.AuthHandler.SendMail)

	games := api.Group("/games", d.Guard.RequireAccess, d.Roles.Require(AllRoles...))
	games.GET("", d.GameHandler.List)
	games.GET("/search", d.GameHandler.Search)
	games.GET("/:uid", d.GameHandler.Get)
	games.POST("", d.GameHandler.Create)
	games.PATCH("/:uid", d.GameHandler.Update)
	games.DELETE("/:uid", d.GameHandler.Delete)
}

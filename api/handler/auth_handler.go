package handler

import (
	"context"
	"net/http"
	"time"

	"hostelhub/api/middleware"
	"hostelhub/internal/dto"
	"hostelhub/internal/service"
	"hostelhub/internal/session"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service       *service.AuthService
	Sessions      *session.Store
	Validate      *validator.Validate
	CookieDomain  string
	SecureCookies bool
	SameSite      http.SameSite
}

func NewAuthHandler(svc *service.AuthService, sessions *session.Store, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{
		Service:       svc,
		Sessions:      sessions,
		Validate:      validate,
		SecureCookies: true,
		SameSite:      http.SameSiteStrictMode,
	}
}

func (h *AuthHandler) StudentLogin(c echo.Context) error {
	return h.login(c, h.Service.LoginStudent)
}

func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, h.Service.LoginAdmin)
}

func (h *AuthHandler) login(c echo.Context, loginFn func(context.Context, service.LoginInput) (*service.LoginResult, error)) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}
	if err := h.Validate.Struct(req); err != nil {
		return writeError(c, http.StatusBadRequest, err)
	}

	input := service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Meta: session.ClientMeta{
			IPAddress: c.RealIP(),
			UserAgent: c.Request().UserAgent(),
			Device:    req.Device,
			TabID:     middleware.TabID(c),
		},
	}
	result, err := loginFn(c.Request().Context(), input)
	if err != nil {
		return writeServiceError(c, err)
	}

	h.setSessionCookie(c, result.Session)
	return c.JSON(http.StatusOK, dto.LoginResponse{
		CSRFToken: result.Session.CSRFToken,
		User:      result.Principal,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID, _ := middleware.SessionIDFromContext(c)
	userID, _ := middleware.UserIDFromContext(c)
	if err := h.Service.Logout(c.Request().Context(), sessionID, userID); err != nil {
		return writeServiceError(c, err)
	}
	h.clearSessionCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// Me is the hydration probe: it re-issues the profile and the CSRF token so
// a reloaded tab can resume mutating requests.
func (h *AuthHandler) Me(c echo.Context) error {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	sessionID, _ := middleware.SessionIDFromContext(c)
	sess, err := h.Sessions.Get(c.Request().Context(), sessionID)
	if err != nil || sess == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
	}
	return c.JSON(http.StatusOK, dto.MeResponse{
		CSRFToken: sess.CSRFToken,
		User:      principal,
	})
}

func (h *AuthHandler) ListSessions(c echo.Context) error {
	userID, _ := middleware.UserIDFromContext(c)
	currentID, _ := middleware.SessionIDFromContext(c)

	sessions, err := h.Service.Sessions(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}

	response := make([]dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		response = append(response, dto.SessionResponse{
			ID:        sess.ID,
			Device:    sess.Device,
			IPAddress: sess.IPAddress,
			UserAgent: sess.UserAgent,
			TabID:     sess.TabID,
			Current:   sess.ID == currentID,
			CreatedAt: sess.CreatedAt,
			LastSeen:  sess.LastSeen,
		})
	}
	return c.JSON(http.StatusOK, response)
}

func (h *AuthHandler) RevokeSession(c echo.Context) error {
	userID, _ := middleware.UserIDFromContext(c)
	if err := h.Service.RevokeSession(c.Request().Context(), userID, c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, sess *session.Session) {
	c.SetCookie(&http.Cookie{
		Name:     h.Sessions.CookieName(sess.TabID),
		Value:    sess.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   int(h.Sessions.AbsoluteTTL() / time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.Sessions.CookieName(middleware.TabID(c)),
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: h.SameSite,
	})
}

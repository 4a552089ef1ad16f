package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nlcorner/admin-api/internal/service"
	"github.com/nlcorner/admin-api/pkg/config"
	appErrors "github.com/nlcorner/admin-api/pkg/errors"
	"github.com/nlcorner/admin-api/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
	session config.SessionConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{service: svc, session: session}
}

// Login godoc
// @Summary Authenticate and open a dashboard session
// @Description Verify email and password, set the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, res.Token, int(h.session.CookieMaxAge.Seconds()))
	response.JSON(c, http.StatusOK, res, nil)
}

// CreateSession godoc
// @Summary Open a session from an existing token
// @Description Validate a session token and set it as the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body handler.sessionPayload true "Session token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/session [post]
func (h *AuthHandler) CreateSession(c *gin.Context) {
	var payload sessionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "token is required"))
		return
	}
	auth, err := h.service.SessionUser(c.Request.Context(), payload.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setSessionCookie(c, payload.Token, int(h.session.CookieMaxAge.Seconds()))
	response.JSON(c, http.StatusOK, auth, nil)
}

// Me godoc
// @Summary Resolve the current session
// @Description Return the account behind the session cookie with its admin flag
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	token, _ := c.Cookie(h.session.CookieName)
	auth, err := h.service.SessionUser(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, auth, nil)
}

// sessionPayload carries a token minted by the account service.
type sessionPayload struct {
	Token string `json:"token" binding:"required"`
}

// Logout godoc
// @Summary Close the dashboard session
// @Description Clear the session cookie
// @Tags Authentication
// @Produce json
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.NoContent(c)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, value, maxAge, "/", "", h.session.CookieSecure, true)
}

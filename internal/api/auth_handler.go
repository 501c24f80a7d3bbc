package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

// LoginPage handles GET /login
func (h *Handler) LoginPage(c *gin.Context) {
	if id, err := sessionID(c, h.cfg.Session.CookieName); err == nil {
		if _, err := h.services.Auth.Resolve(c.Request.Context(), id); err == nil {
			redirect(c, "/")
			return
		}
	}
	h.render(c, http.StatusOK, "login.html", page{Title: "Login"})
}

// Login handles POST /login
func (h *Handler) Login(c *gin.Context) {
	var in validation.LoginInput
	if err := c.ShouldBind(&in); err != nil {
		h.loginFailed(c, http.StatusBadRequest, in, "Invalid form data", nil)
		return
	}

	sess, err := h.services.Auth.Login(c.Request.Context(), in)
	if err != nil {
		if errs, ok := validation.AsErrors(err); ok {
			h.loginFailed(c, http.StatusUnprocessableEntity, in, "", errs.Map())
			return
		}
		if errors.Is(err, service.ErrNotAdmin) {
			h.loginFailed(c, http.StatusForbidden, in, "Access denied: admin privileges required", nil)
			return
		}
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			h.loginFailed(c, http.StatusUnauthorized, in, apiErr.Message, nil)
			return
		}
		h.log.Error().Err(err).Msg("Login failed")
		h.loginFailed(c, http.StatusInternalServerError, in, "Login failed", nil)
		return
	}

	h.setCookie(c, sess)
	redirect(c, "/")
}

func (h *Handler) loginFailed(c *gin.Context, status int, in validation.LoginInput, msg string, errs map[string]string) {
	h.render(c, status, "login.html", page{
		Title:  "Login",
		Error:  msg,
		Form:   map[string]string{"email": in.Email},
		Errors: errs,
	})
}

// Logout handles POST /logout
func (h *Handler) Logout(c *gin.Context) {
	h.endSession(c)
	redirect(c, "/login")
}

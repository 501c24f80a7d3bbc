package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// recoveryMiddleware renders the recovery page for panics. The operator can
// reload and keep working; the session is untouched.
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				reload := c.Request.URL.Path
				if c.Request.Method != http.MethodGet {
					reload = "/"
				}
				c.HTML(http.StatusInternalServerError, "error.html", page{
					Title: "Error",
					Extra: map[string]any{"Reload": reload},
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests under a request id echoed in X-Request-ID
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		requestID := uuid.NewString()
		c.Writer.Header().Set("X-Request-ID", requestID)

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", requestID).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// securityHeadersMiddleware keeps dashboard pages out of frames and caches
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("Cache-Control", "no-store")
		c.Next()
	}
}

// sessionMiddleware resolves the session cookie. Requests without a live
// session are redirected to the login page before any backend call.
func sessionMiddleware(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := sessionID(c, h.cfg.Session.CookieName)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		sess, err := h.services.Auth.Resolve(c.Request.Context(), id)
		if err != nil {
			h.log.Debug().Err(err).Str("session_id", id.String()).Msg("Session not resolved")
			h.clearCookie(c)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		c.Set(workspaceKey, h.services.Workspaces.Open(sess))
		c.Next()
	}
}

// csrfMiddleware checks state-changing requests for the session's token,
// sent in the X-CSRF-Token header or the csrf_token form field
func csrfMiddleware(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			c.Next()
			return
		}

		ws := workspace(c)
		token := c.GetHeader("X-CSRF-Token")
		if token == "" {
			token = c.PostForm("csrf_token")
		}

		reason := ""
		switch {
		case token == "":
			reason = "missing_token"
		case subtle.ConstantTimeCompare([]byte(token), []byte(ws.CSRFToken)) != 1:
			reason = "token_mismatch"
		}
		if reason != "" {
			h.log.Warn().
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Str("reason", reason).
				Msg("CSRF check failed")
			h.render(c, http.StatusForbidden, "error.html", page{
				Title: "Error",
				Error: "Your form expired. Reload the page and try again.",
				Extra: map[string]any{"Reload": "/"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

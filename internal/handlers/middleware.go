package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// userCtxKey holds the authenticated user ID in the gin context.
const userCtxKey = "userId"

var (
	errNoAuthHeader  = errors.New("missing Authorization header")
	errBadAuthHeader = errors.New("invalid Authorization header format")
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || scheme != "Bearer" || strings.TrimSpace(token) == "" {
		return "", errBadAuthHeader
	}
	return strings.TrimSpace(token), nil
}

// requireUser rejects requests without a valid access token and stores the
// user ID under userCtxKey.
func (h *Handler) requireUser(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	uid, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(userCtxKey, uid)
	c.Next()
}

// requestLogger logs one line per request at debug level, server errors at warn.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	status := c.Writer.Status()
	kv := []interface{}{
		"method", c.Request.Method,
		"path", c.FullPath(),
		"status", status,
		"duration", time.Since(start),
	}
	if status >= http.StatusInternalServerError {
		h.log.Warnw("http_request", kv...)
		return
	}
	h.log.Debugw("http_request", kv...)
}

// Package handlers implements the REST endpoints of the counsellor API.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/counsellor/internal/apierr"
	"github.com/edgard/counsellor/internal/counsellor"
	"github.com/edgard/counsellor/internal/database"
	"github.com/edgard/counsellor/internal/university"
)

// Deps are the collaborators shared by every handler.
type Deps struct {
	Logger     *slog.Logger
	Store      database.Store
	Counsellor *counsellor.Counsellor
	Directory  *university.Client
	// CachePing checks the directory cache for /healthcheck. Nil when no
	// cache is configured.
	CachePing func(context.Context) error
}

// ErrorEnvelope is the JSON shape of every error response.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// APIError carries the message and the machine-readable code.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondError renders err. Internal errors are logged and their details
// hidden from the caller.
func RespondError(c *gin.Context, log *slog.Logger, err error) {
	if errors.Is(err, database.ErrNotFound) {
		err = apierr.New(http.StatusNotFound, "not_found", err)
	}
	apiErr := apierr.From(err)
	msg := apiErr.Error()
	if apiErr.Status >= http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)
		msg = "internal server error"
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(apiErr.Status, ErrorEnvelope{Error: APIError{Message: msg, Code: apiErr.Code}})
}

// RespondOK renders payload with 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// queryLimit parses an optional integer query parameter within [minV, maxV].
func queryLimit(c *gin.Context, name string, def, minV, maxV int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < minV || n > maxV {
		return 0, apierr.BadRequest(fmt.Errorf("%s must be an integer between %d and %d", name, minV, maxV))
	}
	return n, nil
}

func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apierr.BadRequest(fmt.Errorf("invalid request body: %w", err))
	}
	return nil
}

func now() time.Time { return time.Now().UTC() }

const msgNoProfile = "Profile not found. Please complete onboarding first."

var errTitleRequired = errors.New("title is required")

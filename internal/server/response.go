// Package server exposes the ledger over a REST JSON surface. Every
// response uses the same envelope; domain errors map onto HTTP status
// classes via the ledger error taxonomy.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/billbook/billbook/internal/ledger"
)

// Response is the envelope wrapping every API payload.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// respond writes a success envelope.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// respondOK writes a success envelope with no payload.
func respondOK(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true})
}

// respondError classifies a ledger failure onto its HTTP status: invalid
// input is the caller's fault (400), unknown ids are 404, duplicate keys
// are 409, and anything else is an internal failure (500) with the
// underlying message forwarded verbatim.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		slog.Error("Request failed", "path", c.Request.URL.Path, "error", err)
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

// respondBadRequest writes a 400 envelope with the given message.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: msg})
}

// pathID parses the named path parameter as a positive integer id. On
// failure it writes a 400 envelope and reports false.
func pathID(c *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, "invalid "+label+" id")
		return 0, false
	}
	return id, true
}

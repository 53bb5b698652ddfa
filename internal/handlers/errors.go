package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/bridgetunes-raffle/internal/middleware"
	"github.com/ArowuTest/bridgetunes-raffle/internal/services"
	"github.com/ArowuTest/bridgetunes-raffle/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// respondError maps service and import errors to a status code and a stable error code.
// Validation and capacity errors carry their message; anything else is reported generically.
func respondError(c *gin.Context, err error) {
	var limitErr *services.LimitExceededError
	var poolErr *services.InsufficientPoolError
	var columnsErr *utils.MissingColumnsError
	var parseErr *utils.ParseError

	switch {
	case errors.Is(err, services.ErrMissingFields):
		badRequest(c, "missing_fields", err)
	case errors.Is(err, services.ErrInvalidCount):
		badRequest(c, "invalid_count", err)
	case errors.Is(err, services.ErrInvalidLimit):
		badRequest(c, "invalid_limit", err)
	case errors.Is(err, services.ErrInvalidExclusion):
		badRequest(c, "invalid_exclusion", err)
	case errors.Is(err, services.ErrInvalidWinner):
		badRequest(c, "invalid_winner", err)
	case errors.Is(err, services.ErrWinnerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "winner_not_found"})
	case errors.As(err, &limitErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   err.Error(),
			"code":    "limit_exceeded",
			"gift":    limitErr.Gift,
			"limit":   limitErr.Limit,
			"current": limitErr.Current,
		})
	case errors.As(err, &poolErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"code":      "insufficient_pool",
			"remaining": poolErr.Remaining,
		})
	case errors.Is(err, utils.ErrMissingFile):
		badRequest(c, "missing_file", err)
	case errors.Is(err, utils.ErrBadExtension):
		badRequest(c, "bad_extension", err)
	case errors.Is(err, utils.ErrBadMimeType):
		badRequest(c, "bad_mimetype", err)
	case errors.Is(err, utils.ErrFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error(), "code": "file_too_large"})
	case errors.As(err, &columnsErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "missing_columns", "missing": columnsErr.Missing})
	case errors.As(err, &parseErr):
		badRequest(c, "parse_error", err)
	default:
		slog.Error("Request failed", "error", err, "path", c.FullPath(), "requestID", c.GetString(middleware.RequestIDKey))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "code": "internal"})
	}
}

func badRequest(c *gin.Context, code string, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": code})
}

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ArowuTest/bridgetunes-raffle/internal/services"
	"github.com/ArowuTest/bridgetunes-raffle/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

// RosterHandler handles roster uploads
type RosterHandler struct {
	drawService services.DrawService
	importer    *utils.RosterImporter
	uploadDir   string
}

// NewRosterHandler creates a new RosterHandler. Accepted files are kept in uploadDir.
func NewRosterHandler(drawService services.DrawService, importer *utils.RosterImporter, uploadDir string) *RosterHandler {
	return &RosterHandler{
		drawService: drawService,
		importer:    importer,
		uploadDir:   uploadDir,
	}
}

// UploadRoster handles POST /roster (multipart field "file").
// A rejected file leaves the current pool and winners untouched.
func (h *RosterHandler) UploadRoster(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, utils.ErrMissingFile)
		return
	}
	if h.importer.MaxBytes > 0 && header.Size > h.importer.MaxBytes {
		respondError(c, utils.ErrFileTooLarge)
		return
	}

	f, err := header.Open()
	if err != nil {
		respondError(c, fmt.Errorf("failed to open upload: %w", err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		respondError(c, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	filename := utils.SanitizeFilename(header.Filename)
	roster, err := h.importer.Parse(filename, bytes.NewReader(data))
	if err != nil {
		slog.Warn("Roster rejected", "filename", filename, "error", err)
		respondError(c, err)
		return
	}

	if err := h.store(filename, data); err != nil {
		respondError(c, err)
		return
	}

	result := h.drawService.LoadRoster(c.Request.Context(), filename, roster.Participants)
	result.TotalRows = roster.TotalRows
	result.Dropped = roster.Dropped
	c.JSON(http.StatusOK, result)
}

func (h *RosterHandler) store(filename string, data []byte) error {
	if h.uploadDir == "" {
		return nil
	}
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(h.uploadDir, filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to store roster: %w", err)
	}
	return nil
}

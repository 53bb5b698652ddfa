package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/ArowuTest/bridgetunes-raffle/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// DrawHandler handles draw-related HTTP requests
type DrawHandler struct {
	drawService services.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService services.DrawService) *DrawHandler {
	return &DrawHandler{
		drawService: drawService,
	}
}

// drawJSONRequest is the JSON body of POST /draws. count, limit and exclude stay
// raw so a malformed value maps to the error of its own field.
type drawJSONRequest struct {
	Gift    string          `json:"gift"`
	Count   json.RawMessage `json:"count"`
	Exclude json.RawMessage `json:"exclude"`
	Limit   json.RawMessage `json:"limit"`
}

// drawFormRequest is the form body of POST /draws. exclude carries a JSON object.
type drawFormRequest struct {
	Gift    string `form:"gift"`
	Count   string `form:"count"`
	Exclude string `form:"exclude"`
	Limit   string `form:"limit"`
}

// Draw handles POST /draws
func (h *DrawHandler) Draw(c *gin.Context) {
	var input models.DrawInput
	var err error
	if c.ContentType() == binding.MIMEJSON {
		input, err = bindDrawJSON(c)
	} else {
		input, err = bindDrawForm(c)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.drawService.Draw(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func bindDrawJSON(c *gin.Context) (models.DrawInput, error) {
	var req drawJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// malformed body or a non-string gift
		return models.DrawInput{}, services.ErrMissingFields
	}
	if strings.TrimSpace(req.Gift) == "" || isAbsent(req.Count) {
		return models.DrawInput{}, services.ErrMissingFields
	}
	var count int
	if err := json.Unmarshal(req.Count, &count); err != nil {
		return models.DrawInput{}, services.ErrInvalidCount
	}
	input := models.DrawInput{Gift: req.Gift, Count: count}

	if !isAbsent(req.Limit) {
		var limit int
		if err := json.Unmarshal(req.Limit, &limit); err != nil {
			return models.DrawInput{}, services.ErrInvalidLimit
		}
		input.LimitOverride = &limit
	}

	if !isAbsent(req.Exclude) {
		var payload participantPayload
		if err := json.Unmarshal(req.Exclude, &payload); err != nil {
			return models.DrawInput{}, services.ErrInvalidExclusion
		}
		p := payload.participant()
		input.Exclude = &p
	}
	return input, nil
}

// isAbsent reports whether a JSON field was omitted or null
func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func bindDrawForm(c *gin.Context) (models.DrawInput, error) {
	var req drawFormRequest
	if err := c.ShouldBind(&req); err != nil {
		return models.DrawInput{}, services.ErrMissingFields
	}
	countText := strings.TrimSpace(req.Count)
	if strings.TrimSpace(req.Gift) == "" || countText == "" {
		return models.DrawInput{}, services.ErrMissingFields
	}
	count, err := strconv.Atoi(countText)
	if err != nil {
		return models.DrawInput{}, services.ErrInvalidCount
	}
	input := models.DrawInput{Gift: req.Gift, Count: count}

	if text := strings.TrimSpace(req.Limit); text != "" {
		limit, err := strconv.Atoi(text)
		if err != nil {
			return models.DrawInput{}, services.ErrInvalidLimit
		}
		input.LimitOverride = &limit
	}

	if text := strings.TrimSpace(req.Exclude); text != "" {
		var payload participantPayload
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			return models.DrawInput{}, services.ErrInvalidExclusion
		}
		p := payload.participant()
		input.Exclude = &p
	}
	return input, nil
}

// GetState handles GET /state
func (h *DrawHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.drawService.Snapshot(c.Request.Context()))
}

// DeleteWinner handles POST /winners/delete
func (h *DrawHandler) DeleteWinner(c *gin.Context) {
	var req winnerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrInvalidWinner)
		return
	}

	deleted, err := h.drawService.DeleteWinner(c.Request.Context(), req.winner())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": deleted})
}

// Redraw handles POST /winners/redraw
func (h *DrawHandler) Redraw(c *gin.Context) {
	var req winnerPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, services.ErrInvalidWinner)
		return
	}

	result, err := h.drawService.Redraw(c.Request.Context(), req.winner())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ClearWinners handles POST /winners/clear
func (h *DrawHandler) ClearWinners(c *gin.Context) {
	h.drawService.ClearWinners(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Reset handles POST /reset
func (h *DrawHandler) Reset(c *gin.Context) {
	h.drawService.Reset(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetGiftLimits handles GET /limits
func (h *DrawHandler) GetGiftLimits(c *gin.Context) {
	c.JSON(http.StatusOK, h.drawService.GiftLimits(c.Request.Context()))
}

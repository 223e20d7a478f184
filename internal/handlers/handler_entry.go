package handlers

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/rentops/ledger_backend/internal/middleware"
)

// entryHandler handles HTTP requests for journal entries.
type entryHandler struct {
	ledgerService portssvc.LedgerService
}

func newEntryHandler(ledgerService portssvc.LedgerService) *entryHandler {
	return &entryHandler{ledgerService: ledgerService}
}

// createEntry godoc
// @Summary Create a draft journal entry
// @Description Validates the items and persists a draft entry with an allocated entry number
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entry body dto.CreateEntryRequest true "Entry to create"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid request or unbalanced items"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /journal-entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.CreateEntry(c.Request.Context(), companyID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to create journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Returns one offset page of entries ordered by entry number descending
// @Tags journal-entries
// @Produce  json
// @Param   status query string false "Filter by status (draft, posted, reversed)"
// @Param   entryType query string false "Filter by entry type"
// @Param   startDate query string false "Inclusive lower bound on entry date (YYYY-MM-DD)"
// @Param   endDate query string false "Inclusive upper bound on entry date (YYYY-MM-DD)"
// @Param   search query string false "Substring match over entry number, description and reference"
// @Param   page query int false "Page number (default 1)"
// @Param   limit query int false "Page size (default 50, max 500)"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /journal-entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for listEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	_, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	entries, total, err := h.ledgerService.ListEntries(c.Request.Context(), companyID, params)
	if err != nil {
		respondError(c, err, "Failed to list journal entries")
		return
	}

	resp := dto.ListEntriesResponse{
		Entries: make([]dto.EntryResponse, len(entries)),
		Pagination: dto.Pagination{
			Page:       params.Page,
			Limit:      params.Limit,
			Total:      total,
			TotalPages: int(math.Ceil(float64(total) / float64(params.Limit))),
		},
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, resp)
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry with its items ordered by line number
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /journal-entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	_, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.GetEntryByID(c.Request.Context(), companyID, c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// updateEntry godoc
// @Summary Update a draft journal entry
// @Description Patches header fields; providing items replaces the whole item set
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   entry body dto.UpdateEntryRequest true "Fields to update"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Invalid request or unbalanced items"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{entryID} [put]
func (h *entryHandler) updateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.UpdateEntry(c.Request.Context(), companyID, userID, c.Param("entryID"), req)
	if err != nil {
		respondError(c, err, "Failed to update journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// deleteEntry godoc
// @Summary Delete a draft journal entry
// @Description Removes a draft entry and its items; posted entries cannot be deleted
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{entryID} [delete]
func (h *entryHandler) deleteEntry(c *gin.Context) {
	_, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	if err := h.ledgerService.DeleteEntry(c.Request.Context(), companyID, c.Param("entryID")); err != nil {
		respondError(c, err, "Failed to delete journal entry")
		return
	}
	c.Status(http.StatusNoContent)
}

// postEntry godoc
// @Summary Post a draft journal entry
// @Description Transitions a draft to posted and applies balance changes to its accounts
// @Tags journal-entries
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} map[string]string "Entry no longer passes validation"
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not a draft"
// @Router /journal-entries/{entryID}/post [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	userID, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), companyID, userID, c.Param("entryID"))
	if err != nil {
		respondError(c, err, "Failed to post journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted journal entry
// @Description Creates and posts a mirror entry that undoes the original's balance effect
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest true "Reversal reason and optional date"
// @Success 201 {object} dto.ReversalResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Failure 409 {object} map[string]string "Entry is not posted or already reversed"
// @Router /journal-entries/{entryID}/reverse [post]
func (h *entryHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReverseEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for reverseEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	original, reversal, err := h.ledgerService.ReverseEntry(c.Request.Context(), companyID, userID, c.Param("entryID"), req)
	if err != nil {
		respondError(c, err, "Failed to reverse journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ReversalResponse{
		Original: dto.ToEntryResponse(original),
		Reversal: dto.ToEntryResponse(reversal),
	})
}

// validateEntry godoc
// @Summary Validate journal entry items without persisting
// @Description Runs the balance and account rules and returns totals plus any problems
// @Tags journal-entries
// @Accept  json
// @Produce  json
// @Param   items body dto.ValidateEntryRequest true "Items to validate"
// @Success 200 {object} dto.ValidateEntryResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /journal-entries/validate [post]
func (h *entryHandler) validateEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ValidateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for validateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	_, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	resp, err := h.ledgerService.ValidateEntry(c.Request.Context(), companyID, req)
	if err != nil {
		respondError(c, err, "Failed to validate journal entry items")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// registerEntryRoutes registers journal entry routes.
func registerEntryRoutes(group *gin.RouterGroup, ledgerService portssvc.LedgerService) {
	h := newEntryHandler(ledgerService)

	entries := group.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.POST("/validate", h.validateEntry)
		entries.GET("/:entryID", h.getEntry)
		entries.PUT("/:entryID", h.updateEntry)
		entries.DELETE("/:entryID", h.deleteEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/rentops/ledger_backend/internal/middleware"
)

// companyHandler handles HTTP requests for the authenticated user's company.
type companyHandler struct {
	companyService portssvc.CompanyService
}

func newCompanyHandler(companyService portssvc.CompanyService) *companyHandler {
	return &companyHandler{companyService: companyService}
}

// getCompany godoc
// @Summary Get the authenticated user's company
// @Tags company
// @Produce  json
// @Success 200 {object} dto.CompanyResponse
// @Failure 404 {object} map[string]string "Company not found"
// @Router /company [get]
func (h *companyHandler) getCompany(c *gin.Context) {
	_, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	company, err := h.companyService.GetCompanyByID(c.Request.Context(), companyID)
	if err != nil {
		respondError(c, err, "Failed to retrieve company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// updateCompany godoc
// @Summary Rename the authenticated user's company
// @Tags company
// @Accept  json
// @Produce  json
// @Param   company body dto.UpdateCompanyRequest true "New company name"
// @Success 200 {object} dto.CompanyResponse
// @Router /company [put]
func (h *companyHandler) updateCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updateCompany", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	userID, companyID, ok := identityFromContext(c)
	if !ok {
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), companyID, userID, req)
	if err != nil {
		respondError(c, err, "Failed to update company")
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// registerCompanyRoutes registers company routes.
func registerCompanyRoutes(group *gin.RouterGroup, companyService portssvc.CompanyService) {
	h := newCompanyHandler(companyService)

	company := group.Group("/company")
	{
		company.GET("", h.getCompany)
		company.PUT("", h.updateCompany)
	}
}

package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
	"github.com/mobilebank/ledger_backend/internal/dto"
	"github.com/mobilebank/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// adminHandler handles the administrative listing endpoints. Access control
// beyond authentication is assumed to be enforced upstream.
type adminHandler struct {
	accountService portssvc.AccountSvcFacade
	historyService portssvc.HistorySvcFacade
}

// registerAdminRoutes registers the admin listing routes.
func registerAdminRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, historyService portssvc.HistorySvcFacade) {
	h := &adminHandler{accountService: accountService, historyService: historyService}

	admin := rg.Group("/admin")
	{
		admin.GET("/accounts", h.listAccounts)
		admin.GET("/entries", h.listEntries)
	}
}

// listAccounts godoc
// @Summary List all accounts
// @Description Returns all accounts. Credential hashes are never included.
// @Tags admin
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/accounts [get]
func (h *adminHandler) listAccounts(c *gin.Context) {
	var params dto.ListAccountsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination params: " + err.Error()})
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), params.Limit, params.Offset)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list accounts"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountsResponse(accounts))
}

// listEntries godoc
// @Summary List the full audit trail
// @Description Returns every ledger entry in ascending sequence order.
// @Tags admin
// @Produce json
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/entries [get]
func (h *adminHandler) listEntries(c *gin.Context) {
	entries, err := h.historyService.ListAuditTrail(c.Request.Context())
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to list audit trail", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list entries"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntriesResponse(entries))
}

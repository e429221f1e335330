package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
	"github.com/mobilebank/ledger_backend/internal/dto"
	"github.com/mobilebank/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	historyService portssvc.HistorySvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade, hs portssvc.HistorySvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
		historyService: hs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade, historyService portssvc.HistorySvcFacade) {
	h := newAccountHandler(accountService, historyService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:username/balance", h.getBalance)
		accounts.GET("/:username/history", h.getHistory)
	}
}

// getBalance godoc
// @Summary Get account balance
// @Description Returns the current balance in minor currency units.
// @Tags accounts
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.BalanceResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{username}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	username := c.Param("username")

	account, err := h.accountService.GetAccountByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get balance"})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Username: account.Username, Balance: account.Balance})
}

// getHistory godoc
// @Summary Get transaction history
// @Description Returns the account's ledger entries newest-first, optionally filtered by kind.
// @Tags accounts
// @Produce json
// @Param username path string true "Username"
// @Param kind query string false "Entry kind filter" Enums(deposit, withdraw, transfer)
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{username}/history [get]
func (h *accountHandler) getHistory(c *gin.Context) {
	username := c.Param("username")

	var params dto.HistoryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid kind filter: " + err.Error()})
		return
	}
	var kind *domain.EntryKind
	if params.Kind != "" {
		k := domain.EntryKind(params.Kind)
		kind = &k
	}

	entries, err := h.historyService.ListHistory(c.Request.Context(), username, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to get history", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntriesResponse(entries))
}

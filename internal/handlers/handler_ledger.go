package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
	"github.com/mobilebank/ledger_backend/internal/dto"
	"github.com/mobilebank/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler handles HTTP requests for balance-affecting operations.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes for deposits, withdrawals and transfers.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/transfer", h.transfer)
		ledger.POST("/deposit", h.deposit)
		ledger.POST("/withdraw", h.withdraw)
	}
}

// respondLedgerError maps coordinator failures onto stable HTTP statuses.
func respondLedgerError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Account not found"})
	case errors.Is(err, apperrors.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Amount must be a positive integer"})
	case errors.Is(err, apperrors.ErrInvalidOperation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Sender and receiver must be distinct accounts"})
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Insufficient funds"})
	case errors.Is(err, apperrors.ErrContention):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Operation aborted due to contention, please retry"})
	default:
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Ledger operation failed",
			slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to execute " + operation})
	}
}

// transfer godoc
// @Summary Transfer between accounts
// @Description Atomically moves an amount from sender to receiver and records the entry.
// @Tags ledger
// @Accept json
// @Produce json
// @Param transfer body dto.TransferRequest true "Transfer details"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Contention"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/transfer [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.Transfer(c.Request.Context(), req.Sender, req.Receiver, req.Amount)
	if err != nil {
		respondLedgerError(c, err, "transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// deposit godoc
// @Summary Deposit into an account
// @Description Credits the account from the BANK counterparty and records the entry.
// @Tags ledger
// @Accept json
// @Produce json
// @Param deposit body dto.DepositRequest true "Deposit details"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/deposit [post]
func (h *ledgerHandler) deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.Deposit(c.Request.Context(), req.Username, req.Amount)
	if err != nil {
		respondLedgerError(c, err, "deposit")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// withdraw godoc
// @Summary Withdraw from an account
// @Description Debits the account toward the ATM counterparty and records the entry.
// @Tags ledger
// @Accept json
// @Produce json
// @Param withdraw body dto.WithdrawRequest true "Withdrawal details"
// @Success 200 {object} dto.EntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /ledger/withdraw [post]
func (h *ledgerHandler) withdraw(c *gin.Context) {
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	entry, err := h.ledgerService.Withdraw(c.Request.Context(), req.Username, req.Amount)
	if err != nil {
		respondLedgerError(c, err, "withdraw")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// transactionHandler exposes the balance mutating operations.
type transactionHandler struct {
	engine portssvc.TransactionEngineSvc
}

func registerTransactionRoutes(me *gin.RouterGroup, engine portssvc.TransactionEngineSvc) {
	h := &transactionHandler{engine: engine}

	me.POST("/deposit", h.deposit)
	me.POST("/withdraw", h.withdraw)
	me.POST("/transfer", h.transfer)
}

// deposit godoc
// @Summary Deposit money
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.AmountRequest true "Amount as a decimal string"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 401 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me/deposit [post]
func (h *transactionHandler) deposit(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.engine.Deposit(c.Request.Context(), username, req.Amount)
	if err != nil {
		respondError(c, err, "Failed to deposit")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOperationResponse(res))
}

// withdraw godoc
// @Summary Withdraw money
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.AmountRequest true "Amount as a decimal string"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me/withdraw [post]
func (h *transactionHandler) withdraw(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.engine.Withdraw(c.Request.Context(), username, req.Amount)
	if err != nil {
		respondError(c, err, "Failed to withdraw")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOperationResponse(res))
}

// transfer godoc
// @Summary Transfer money to another user
// @Tags transactions
// @Accept json
// @Produce json
// @Param body body dto.TransferRequest true "Recipient username, amount and optional description"
// @Success 201 {object} dto.OperationResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or self transfer"
// @Failure 404 {object} ErrorResponse "Unknown recipient"
// @Failure 422 {object} ErrorResponse "Insufficient funds"
// @Failure 503 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me/transfer [post]
func (h *transactionHandler) transfer(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	res, err := h.engine.Transfer(c.Request.Context(), username, req.Recipient, req.Amount, req.Description)
	if err != nil {
		respondError(c, err, "Failed to transfer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOperationResponse(res))
}

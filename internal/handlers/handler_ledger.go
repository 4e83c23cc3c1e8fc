package handlers

import (
	"io"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/dto"
	"github.com/gin-gonic/gin"
)

// streamKeepAlive is how often an idle ledger stream sends a ping.
const streamKeepAlive = 25 * time.Second

// ledgerHandler serves the read-only views of the caller's ledger.
type ledgerHandler struct {
	projector portssvc.ViewProjectorSvc
	notifier  portssvc.ChangeNotifierSvc
}

func registerLedgerRoutes(me *gin.RouterGroup, projector portssvc.ViewProjectorSvc, notifier portssvc.ChangeNotifierSvc) {
	h := &ledgerHandler{projector: projector, notifier: notifier}

	me.GET("/summary", h.summary)
	ledger := me.Group("/ledger")
	{
		ledger.GET("", h.listLedger)
		ledger.GET("/counts", h.counts)
		ledger.GET("/stream", h.stream)
	}
}

// summary godoc
// @Summary Dashboard summary
// @Description Balance, the three most recent signed entries and the total entry count.
// @Tags ledger
// @Produce json
// @Success 200 {object} dto.AccountSummaryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me/summary [get]
func (h *ledgerHandler) summary(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	s, err := h.projector.AccountSummary(c.Request.Context(), username)
	if err != nil {
		respondError(c, err, "Failed to load summary")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountSummaryResponse(s))
}

// listLedger godoc
// @Summary Page through the caller's ledger
// @Description Newest first. Pass nextToken from the previous page to continue.
// @Tags ledger
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.LedgerPageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me/ledger [get]
func (h *ledgerHandler) listLedger(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	var params dto.ListLedgerParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}
	page, err := h.projector.LedgerPage(c.Request.Context(), username, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerPageResponse(page))
}

// counts godoc
// @Summary Ledger counts
// @Description Deposits counts credits, withdrawals counts debits, transfers counts transfer entries.
// @Tags ledger
// @Produce json
// @Success 200 {object} dto.AggregateCountsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/me/ledger/counts [get]
func (h *ledgerHandler) counts(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	counts, err := h.projector.AggregateCounts(c.Request.Context(), username)
	if err != nil {
		respondError(c, err, "Failed to count ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToAggregateCountsResponse(counts))
}

// stream godoc
// @Summary Live dashboard
// @Description Server-sent events. A "summary" event is sent on connect and after every change to the caller's ledger.
// @Tags ledger
// @Produce text/event-stream
// @Success 200 {object} dto.AccountSummaryResponse
// @Security BearerAuth
// @Router /api/v1/me/ledger/stream [get]
func (h *ledgerHandler) stream(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// Subscribe before the first read so no change between the two is missed.
	events, cancel := h.notifier.Subscribe(username)
	defer cancel()

	initial, err := h.projector.AccountSummary(ctx, username)
	if err != nil {
		respondError(c, err, "Failed to load summary")
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("summary", dto.ToAccountSummaryResponse(initial))
	c.Writer.Flush()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case _, open := <-events:
			if !open {
				return false
			}
			s, err := h.projector.AccountSummary(ctx, username)
			if err != nil {
				c.SSEvent("error", ErrorResponse{Error: "Failed to refresh summary"})
				return ctx.Err() == nil
			}
			c.SSEvent("summary", dto.ToAccountSummaryResponse(s))
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
			return true
		}
	})
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khatapp/khata/internal/apperrors"
	"github.com/khatapp/khata/internal/core/domain"
	"github.com/khatapp/khata/internal/core/services"
	"github.com/khatapp/khata/internal/dto"
	"github.com/khatapp/khata/internal/middleware"
	"github.com/khatapp/khata/internal/utils/ledger"
)

// reportingHandler handles the derived-state endpoints: balances, monthly
// totals, breakdowns, budget positions and the filtered transaction view.
type reportingHandler struct {
	reportingService *services.ReportingService
}

func newReportingHandler(rs *services.ReportingService) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

func registerReportingRoutes(r *gin.Engine, rs *services.ReportingService) {
	h := newReportingHandler(rs)

	r.GET("/balance", h.totalBalance)
	r.GET("/accounts/:id/balance", h.accountBalance)

	reports := r.Group("/reports")
	{
		reports.GET("/monthly", h.monthlyReport)
		reports.GET("/breakdown", h.breakdown)
		reports.GET("/budgets", h.budgets)
		reports.GET("/transactions", h.filteredTransactions)
	}
}

func (h *reportingHandler) totalBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	balance, err := h.reportingService.TotalBalance(c.Request.Context())
	if err != nil {
		logger.Error("Failed to compute total balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance": balance})
}

func (h *reportingHandler) accountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	balance, err := h.reportingService.AccountBalance(c.Request.Context(), accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to compute account balance", slog.String("error", err.Error()), slog.String("account_id", accountID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accountId": accountID, "balance": balance})
}

func (h *reportingHandler) monthlyReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.MonthParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	report, err := h.reportingService.MonthlyReport(c.Request.Context(), params.Month, params.Top)
	if err != nil {
		logger.Error("Failed to build monthly report", slog.String("error", err.Error()), slog.String("month", params.Month))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *reportingHandler) breakdown(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.BreakdownParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	kind := domain.TransactionType(params.Kind)
	if kind == "" {
		kind = domain.TypeExpense
	}

	breakdown, err := h.reportingService.CategoryBreakdown(c.Request.Context(), params.Month, kind, params.Top)
	if err != nil {
		logger.Error("Failed to build category breakdown", slog.String("error", err.Error()), slog.String("month", params.Month))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build breakdown"})
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (h *reportingHandler) budgets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.MonthParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	statuses, err := h.reportingService.BudgetStatuses(c.Request.Context(), params.Month)
	if err != nil {
		logger.Error("Failed to compute budget statuses", slog.String("error", err.Error()), slog.String("month", params.Month))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute budgets"})
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (h *reportingHandler) filteredTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.FilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	filter := ledger.Filter{
		Type:        domain.TransactionType(params.Type),
		AccountIDs:  params.AccountIDs,
		CategoryIDs: params.CategoryIDs,
		DateFrom:    params.DateFrom,
		DateTo:      params.DateTo,
		Tags:        params.Tags,
		Search:      params.Search,
	}
	transactions, err := h.reportingService.FilteredTransactions(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to filter transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to filter transactions"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

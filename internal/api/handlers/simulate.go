package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/peter-kozarec/equitycalc/internal/api/models"
	"github.com/peter-kozarec/equitycalc/pkg/equity"
	"github.com/peter-kozarec/equitycalc/pkg/tools/metrics"
	"github.com/peter-kozarec/equitycalc/pkg/utility"
)

type SimulateHandler struct {
	logger *zap.Logger
}

func NewSimulateHandler(logger *zap.Logger) *SimulateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulateHandler{logger: logger}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulateHandler) Simulate(c *gin.Context) {
	req := models.NewSimulateRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, err, "INVALID_REQUEST")
		return
	}

	engine, err := equity.NewEngine(equity.WithParameters(req.Parameters))
	if err != nil {
		h.fail(c, err, "INVALID_CONFIG")
		return
	}

	cash, err := engine.Run(c.Request.Context(), req.Series)
	if err != nil {
		h.fail(c, err, "SIMULATION_FAILED")
		return
	}

	report, err := metrics.NewReport(cash, req.Parameters.InitialCash, req.PeriodsPerYear)
	if err != nil {
		h.fail(c, err, "REPORT_FAILED")
		return
	}

	c.JSON(http.StatusOK, models.SimulateResponse{
		Symbol: req.Symbol,
		RunID:  utility.NewRunID(),
		Cash:   cash,
		Summary: models.SimulateSummary{
			Steps:                report.Steps,
			InitialEquity:        report.InitialEquity,
			FinalEquity:          report.FinalEquity,
			TotalProfit:          report.TotalProfit,
			MaxDrawdown:          report.MaxDrawdown,
			BlowupIndex:          report.BlowupIndex,
			SharpeRatio:          report.SharpeRatio,
			SortinoRatio:         report.SortinoRatio,
			AnnualizedVolatility: report.AnnualizedVolatility,
		},
	})
}

// fail maps engine error classes to stable codes; anything else keeps fallback.
func (h *SimulateHandler) fail(c *gin.Context, err error, fallback string) {
	code := fallback
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, equity.ErrConfiguration):
		code = "INVALID_CONFIG"
	case errors.Is(err, equity.ErrNumericDomain):
		code = "NUMERIC_DOMAIN"
	case fallback == "REPORT_FAILED":
		status = http.StatusUnprocessableEntity
	}

	h.logger.Debug("simulate rejected", zap.String("code", code), zap.Error(err))
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: err.Error(),
		},
	})
}

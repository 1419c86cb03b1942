package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/peter-kozarec/equitycalc/internal/api/models"
	"github.com/peter-kozarec/equitycalc/pkg/equity"
	"github.com/peter-kozarec/equitycalc/pkg/utility"
)

const streamWriteTimeout = 5 * time.Second

type StreamHandler struct {
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewStreamHandler(logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Stream handles GET /api/v1/stream. The client opens with a StreamStart,
// then sends one bar per message and receives the cash for it. Each
// connection owns its own engine state.
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("stream upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	start := models.NewStreamStart()
	if err := conn.ReadJSON(&start); err != nil {
		h.reject(conn, err, "INVALID_REQUEST")
		return
	}

	engine, err := equity.NewEngine(equity.WithParameters(start.Parameters))
	if err != nil {
		h.reject(conn, err, "INVALID_CONFIG")
		return
	}

	runID := utility.NewRunID()
	logger := h.logger.With(zap.String("symbol", start.Symbol), zap.Stringer("run_id", runID))
	logger.Debug("stream opened")

	var state *equity.State
	for {
		var bar equity.Bar
		if err := conn.ReadJSON(&bar); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("stream closed", zap.Int("steps", stateIndex(state)))
				return
			}
			h.reject(conn, err, "INVALID_REQUEST")
			return
		}

		if state == nil {
			state = engine.NewState(bar)
		}

		idx := state.Index
		cash, err := engine.Step(state, bar)
		if err != nil {
			h.reject(conn, err, "SIMULATION_FAILED")
			return
		}

		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(models.StreamStep{Index: idx, Cash: cash}); err != nil {
			logger.Warn("stream write failed", zap.Error(err))
			return
		}
	}
}

// reject sends the error frame followed by a close frame.
func (h *StreamHandler) reject(conn *websocket.Conn, err error, fallback string) {
	code := fallback
	switch {
	case errors.Is(err, equity.ErrConfiguration):
		code = "INVALID_CONFIG"
	case errors.Is(err, equity.ErrNumericDomain):
		code = "NUMERIC_DOMAIN"
	}

	h.logger.Debug("stream rejected", zap.String("code", code), zap.Error(err))

	deadline := time.Now().Add(streamWriteTimeout)
	_ = conn.SetWriteDeadline(deadline)
	_ = conn.WriteJSON(models.ErrorResponse{
		Error: models.ErrorDetail{Code: code, Message: err.Error()},
	})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, code), deadline)
}

func stateIndex(s *equity.State) int {
	if s == nil {
		return 0
	}
	return s.Index
}

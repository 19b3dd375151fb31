package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/logger"
)

// wrap adds the request id, rate limiting, metrics and logging around a
// tool body, and turns its result or error into a CallToolResult. Tool
// failures are reported in the result, never as a protocol error.
func (s *Server) wrap(name string, h handlerFunc) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := uuid.NewString()
		ctx = logger.WithRequestID(ctx, requestID)
		log := s.log.With(logger.FieldTool, name, logger.FieldRequestID, requestID)

		if s.limiter != nil && !s.limiter.Allow() {
			s.metrics.Limited.Inc()
			s.metrics.Calls.WithLabelValues(name, errorKind(ErrRateLimited)).Inc()
			log.Warnw("Tool call rate limited")
			return toolError(errors.WithHint(ErrRateLimited, "slow down and retry")), nil
		}

		start := time.Now()
		out, err := h(ctx, req)
		elapsed := time.Since(start)
		s.metrics.Duration.WithLabelValues(name).Observe(elapsed.Seconds())

		if err == nil {
			var res *mcp.CallToolResult
			if res, err = jsonResult(out); err == nil {
				s.metrics.Calls.WithLabelValues(name, "ok").Inc()
				log.Debugw("Tool call succeeded", logger.FieldDurationMS, elapsed.Milliseconds())
				return res, nil
			}
		}

		kind := errorKind(err)
		s.metrics.Calls.WithLabelValues(name, kind).Inc()
		log.Infow("Tool call failed",
			logger.FieldErrorType, kind,
			logger.FieldError, err.Error(),
			logger.FieldDurationMS, elapsed.Milliseconds())
		return toolError(err), nil
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encode tool result")
	}
	return mcp.NewToolResultText(string(data)), nil
}

package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ganot/fete-till/internal/mcp"
)

type api struct {
	handler *mcp.Handler
	logger  *slog.Logger
}

// binder turns a request into the params of a till command.
type binder func(c *gin.Context) (any, error)

func (a *api) call(method string, bind binder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var raw json.RawMessage
		if bind != nil {
			params, err := bind(c)
			if err != nil {
				writeError(c, &mcp.APIError{Code: mcp.CodeInvalidInput, Message: err.Error()})
				return
			}
			if raw, err = json.Marshal(params); err != nil {
				writeError(c, err)
				return
			}
		}

		result, err := a.handler.Handle(c.Request.Context(), method, raw)
		if err != nil {
			if a.logger != nil {
				a.logger.Warn("till command failed", "method", method, "error", err)
			}
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func bindJSON[T any](c *gin.Context) (any, error) {
	var params T
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return params, nil
}

func bindSlot(c *gin.Context) (any, error) {
	slot, err := strconv.Atoi(c.Param("slot"))
	if err != nil {
		return nil, errors.New("slot must be an integer")
	}
	return mcp.PressButtonParams{Slot: slot}, nil
}

func bindDeposit(c *gin.Context) (any, error) {
	var params mcp.DepositParams
	if err := c.ShouldBindJSON(&params); err != nil {
		return nil, err
	}
	params.Name = c.Param("name")
	return params, nil
}

func bindClientsQuery(c *gin.Context) (any, error) {
	var params mcp.ListClientsParams
	if v := c.Query("jobists_only"); v != "" {
		only, err := strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("jobists_only must be a boolean")
		}
		params.JobistsOnly = only
	}
	return params, nil
}

func bindActivityQuery(c *gin.Context) (any, error) {
	var params mcp.RecentActivityParams
	if id := c.Query("session_id"); id != "" {
		params.SessionID = &id
	}
	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return nil, errors.New("limit must be a non-negative integer")
		}
		params.Limit = limit
	}
	return params, nil
}

func writeError(c *gin.Context, err error) {
	var apiErr *mcp.APIError
	if !errors.As(err, &apiErr) {
		c.JSON(http.StatusInternalServerError, &mcp.APIError{Code: "INTERNAL_ERROR", Message: err.Error()})
		return
	}
	c.JSON(statusFor(apiErr.Code), apiErr)
}

func statusFor(code string) int {
	switch code {
	case mcp.CodeItemNotFound, mcp.CodeClientNotFound, mcp.CodeSessionNotFound, mcp.CodeEmptySlot:
		return http.StatusNotFound
	case mcp.CodeInvalidTier, mcp.CodeInvalidAction, mcp.CodeInvalidSlot, mcp.CodeInvalidInput,
		mcp.CodePriceUnavailable, mcp.CodeEmptyOrder:
		return http.StatusBadRequest
	case mcp.CodeInvalidTransition, mcp.CodeOrderNotEmpty, mcp.CodeStalePending,
		mcp.CodeItemExists, mcp.CodeClientExists:
		return http.StatusConflict
	case mcp.CodeLimitExceeded:
		return http.StatusUnprocessableEntity
	case mcp.CodePersistence:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

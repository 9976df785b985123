package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/tabs"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/types"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/utils"
)

// decodeJSON reads the request body into v and validates its binding tags.
// On failure it writes a 400 response and returns false.
func (h *Handlers) decodeJSON(c *gin.Context, v any) bool {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, utils.MaxJSONSize+1))
	if err != nil {
		badRequest(c, fmt.Errorf("read body: %w", err))
		return false
	}
	if err := h.validator.ValidateJSON(data); err != nil {
		badRequest(c, err)
		return false
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		badRequest(c, fmt.Errorf("decode body: %w", err))
		return false
	}
	if err := binding.Validator.ValidateStruct(v); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: err.Error(), Code: types.CodeInvalidRequest})
}

// statusOf maps domain errors to an HTTP status and error code
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, tabs.ErrInvalidRoute), errors.Is(err, workspace.ErrInvalidID):
		return http.StatusBadRequest, types.CodeInvalidRequest
	case errors.Is(err, tabs.ErrCapacityExceeded):
		return http.StatusConflict, types.CodeCapacityExceeded
	case errors.Is(err, tabs.ErrDuplicateRoute):
		return http.StatusConflict, types.CodeDuplicateRoute
	case errors.Is(err, tabs.ErrPinnedRoute):
		return http.StatusConflict, types.CodePinnedRoute
	case errors.Is(err, tabs.ErrNotClosable):
		return http.StatusForbidden, types.CodeNotClosable
	case errors.Is(err, tabs.ErrTabNotFound):
		return http.StatusNotFound, types.CodeNotFound
	case errors.Is(err, resilience.ErrCircuitOpen):
		return http.StatusServiceUnavailable, types.CodeInternal
	default:
		return http.StatusInternalServerError, types.CodeInternal
	}
}

func writeError(c *gin.Context, err error) {
	status, code := statusOf(err)
	c.JSON(status, types.ErrorResponse{Error: err.Error(), Code: code})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, types.ErrorResponse{Error: what + " not found", Code: types.CodeNotFound})
}

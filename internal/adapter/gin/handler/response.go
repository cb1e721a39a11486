package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "integrador-service/pkg/errors"
	"integrador-service/pkg/logger"
)

// Error codes the handlers add on top of pkg/errors.
const (
	CodeInvalidID   = "invalid_id"
	CodeInvalidBody = "validation_error"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Mensaje string `json:"mensaje"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Mensaje string `json:"mensaje"`
}

// handleError converts usecase errors to HTTP responses. Errors that do not
// carry an HTTP status are logged and reported as a generic 500.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	var statuser apperrors.HTTPStatuser
	if errors.As(err, &statuser) {
		if statuser.HTTPStatus() >= http.StatusInternalServerError {
			logger.WithContext(c.Request.Context(), log).Error("request failed", zap.Error(err))
		}
		c.JSON(statuser.HTTPStatus(), ErrorResponse{
			Error:   statuser.Code(),
			Mensaje: apperrors.PublicMessage(statuser),
		})
		return
	}

	logger.WithContext(c.Request.Context(), log).Error("unexpected error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   apperrors.CodeInternal,
		Mensaje: "Error interno del servidor.",
	})
}

// bindJSON decodes the body into dst. An empty body is accepted when
// allowEmpty is set.
func bindJSON(c *gin.Context, log *zap.Logger, dst any, allowEmpty bool) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	logger.WithContext(c.Request.Context(), log).Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   CodeInvalidBody,
		Mensaje: "El cuerpo de la solicitud no es un JSON válido.",
	})
	return false
}

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, log *zap.Logger, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		logger.WithContext(c.Request.Context(), log).Warn("invalid id", zap.String(name, raw))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   CodeInvalidID,
			Mensaje: "El identificador debe ser un número válido.",
		})
		return 0, false
	}
	return id, true
}

package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"toro-system/pkg/constants"
	apperrors "toro-system/pkg/errors"
)

// ErrorResponse переводит любую ошибку в JSON-формат API:
// {"error": "<kind>", "details": {...}} либо {"error": "<kind>", "message": "..."}.
// Технические детали остаются в серверных логах.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("kind", httpErr.Kind),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}

		body := map[string]interface{}{"error": httpErr.Kind}
		if len(httpErr.Details) > 0 {
			body["details"] = httpErr.Details
		} else {
			body["message"] = httpErr.Message
		}
		return ctx.JSON(httpErr.Code, body)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make(map[string]string, len(validationErrors))
		for _, fe := range validationErrors {
			details[fe.Field()] = validationMessage(fe)
		}
		return ctx.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   apperrors.KindValidation,
			"details": details,
		})
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		return ctx.JSON(http.StatusNotFound, map[string]interface{}{
			"error":   apperrors.KindNotFound,
			"message": "Order not found",
		})
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return ctx.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error":   apperrors.KindInternal,
		"message": "Unexpected server error",
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Field is required"
	case "order_status":
		return fmt.Sprintf("Must be one of: %s", strings.Join(constants.OrderStatuses, ", "))
	case "order_priority":
		return fmt.Sprintf("Must be one of: %s", strings.Join(constants.OrderPriorities, ", "))
	case "phone_ru":
		return "Must match format +7-XXX-XXX-XX-XX"
	case "custom_email":
		return "Must be a valid email address"
	default:
		return fmt.Sprintf("Failed on rule '%s'", fe.Tag())
	}
}

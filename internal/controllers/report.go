package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"toro-system/internal/entities"
	"toro-system/internal/services"
	apperrors "toro-system/pkg/errors"
	"toro-system/pkg/utils"
	"toro-system/pkg/validation"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

var reportHeaders = []string{
	"ID", "Номер заявки", "Тип оборудования", "Оборудование", "Описание проблемы",
	"Приоритет", "Статус", "Заявитель", "Подразделение", "Телефон", "Email",
	"Создана", "Обновлена", "Завершена",
}

// ExportOrders выгружает заявки в xlsx с теми же фильтрами, что список.
func (c *ReportController) ExportOrders(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, fieldErrs := validation.ValidateOrderFilters(ctx.Request().URL.Query())
	if len(fieldErrs) > 0 {
		return utils.ErrorResponse(ctx, apperrors.NewValidationError(fieldErrs), c.logger)
	}

	orders, err := c.reportService.GetOrdersForExport(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return c.respondWithXLSX(ctx, orders)
}

func rowToSlice(o entities.Order) []interface{} {
	var completedAt string
	if o.CompletedAt.Valid {
		completedAt = utils.FormatTimestamp(o.CompletedAt.Time)
	}
	return []interface{}{
		o.ID, o.OrderNumber, o.EquipmentType, o.EquipmentID, o.IssueDescription,
		o.Priority, o.Status, o.RequesterName, o.Department, o.ContactPhone, o.ContactEmail,
		utils.FormatTimestamp(o.CreatedAt), utils.FormatTimestamp(o.UpdatedAt), completedAt,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, orders []entities.Order) error {
	f := excelize.NewFile()
	sheet := "Заявки ТОРО"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "N1", style)

	for i, order := range orders {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(order)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 18)
	f.SetColWidth(sheet, "E", "E", 50)
	f.SetColWidth(sheet, "H", "K", 22)
	f.SetColWidth(sheet, "L", "N", 20)

	fileName := fmt.Sprintf("orders_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}

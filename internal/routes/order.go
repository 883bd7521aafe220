package routes

import (
	"github.com/labstack/echo/v4"

	"toro-system/internal/controllers"
)

func runOrderRouter(api *echo.Group, orderCtrl *controllers.OrderController, reportCtrl *controllers.ReportController) {
	orders := api.Group("/orders")

	orders.POST("", orderCtrl.CreateOrder)
	orders.GET("", orderCtrl.GetOrders)
	// export раньше :id, иначе echo примет "export" за идентификатор
	orders.GET("/export", reportCtrl.ExportOrders)
	orders.GET("/:id", orderCtrl.FindOrder)
	orders.PATCH("/:id/status", orderCtrl.UpdateOrderStatus)
	orders.DELETE("/:id", orderCtrl.DeleteOrder)
}

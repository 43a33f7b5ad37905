package server

import (
	"github.com/gnbaba/TindaWise/internal/config"
	"github.com/gnbaba/TindaWise/internal/handler"
	"github.com/gnbaba/TindaWise/internal/middleware"

	"github.com/labstack/echo/v4"
)

// RegisterRoutesは公開ルートと認証必須ルートを登録する。
// POSの操作面（在庫・レジ・レポート）はすべてログイン必須。
func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	invH *handler.InventoryHandler,
	checkoutH *handler.CheckoutHandler,
	reportH *handler.ReportHandler,
) {
	authH.RegisterRoutes(e)

	pos := e.Group("")
	pos.Use(middleware.AuthJWT(cfg.JWTSecret))

	invH.RegisterRoutes(pos)
	checkoutH.RegisterRoutes(pos)
	reportH.RegisterRoutes(pos)
}

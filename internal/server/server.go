package server

import (
	"github.com/gnbaba/TindaWise/internal/config"
	"github.com/gnbaba/TindaWise/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Newはルーティング済みのechoインスタンスを組み立てる。
func New(
	cfg config.Config,
	authH *handler.AuthHandler,
	invH *handler.InventoryHandler,
	checkoutH *handler.CheckoutHandler,
	reportH *handler.ReportHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, authH, invH, checkoutH, reportH)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}

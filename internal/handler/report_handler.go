package handler

import (
	"net/http"
	"strconv"

	"github.com/gnbaba/TindaWise/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /reports の読み取り専用API
type ReportHandler struct {
	uc *usecase.ReportUsecase
}

// DI
func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/reports/overview", h.overview)
	g.GET("/reports/best-products", h.bestProducts)
	g.GET("/reports/best-categories", h.bestCategories)
	g.GET("/reports/low-stock", h.lowStock)
}

func (h *ReportHandler) overview(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Overview(c.Request().Context()))
}

// limit（default 4、レポート画面の表と同じ）
func limitParam(c echo.Context) (int, error) {
	limit := 4
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, err
		}
		limit = n
	}
	return limit, nil
}

func (h *ReportHandler) bestProducts(c echo.Context) error {
	limit, err := limitParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	rows, err := h.uc.BestSellingProducts(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) bestCategories(c echo.Context) error {
	limit, err := limitParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	rows, err := h.uc.BestSellingCategories(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) lowStock(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.LowStock(c.Request().Context()))
}

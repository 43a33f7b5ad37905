package handler

import (
	"net/http"
	"strconv"

	"github.com/gnbaba/TindaWise/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /products の在庫管理API
type InventoryHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewInventoryHandler(uc *usecase.CatalogUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// 在庫管理のルートを登録
func (h *InventoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.POST("/products", h.create)
	g.DELETE("/products", h.bulkDelete)
	g.PUT("/products/:id", h.update)
	g.POST("/products/:id/restock", h.restock)
	g.GET("/products/:id/history", h.history)
}

func (h *InventoryHandler) list(c echo.Context) error {
	products, err := h.uc.ListProducts(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

type ProductCreateRequest struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	BuyingPrice  float64 `json:"buying_price"`
	SellingPrice float64 `json:"selling_price"`
	Quantity     int64   `json:"quantity"`
	Threshold    *int64  `json:"threshold"`
}

func (h *InventoryHandler) create(c echo.Context) error {
	var req ProductCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.AddProduct(c.Request().Context(), usecase.AddProductInput{
		Name:         req.Name,
		Category:     req.Category,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
		Quantity:     req.Quantity,
		Threshold:    req.Threshold,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

type ProductDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

type ProductDeleteResponse struct {
	Removed int `json:"removed"`
}

func (h *InventoryHandler) bulkDelete(c echo.Context) error {
	var req ProductDeleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	removed, err := h.uc.DeleteProducts(c.Request().Context(), req.IDs)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, ProductDeleteResponse{Removed: removed})
}

// 部分更新。入っているフィールドだけ反映する。
type ProductUpdateRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	BuyingPrice  *float64 `json:"buying_price"`
	SellingPrice *float64 `json:"selling_price"`
	Quantity     *int64   `json:"quantity"`
	Threshold    *int64   `json:"threshold"`
}

func (h *InventoryHandler) update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.UpdateProduct(c.Request().Context(), id, usecase.UpdateProductInput{
		Name:         req.Name,
		Category:     req.Category,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
		Quantity:     req.Quantity,
		Threshold:    req.Threshold,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

type RestockRequest struct {
	Qty          int64   `json:"qty"`
	BuyingPrice  float64 `json:"buying_price"`
	SellingPrice float64 `json:"selling_price"`
}

func (h *InventoryHandler) restock(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req RestockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Restock(c.Request().Context(), id, usecase.RestockInput{
		Qty:          req.Qty,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *InventoryHandler) history(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	events, err := h.uc.GetRestockHistory(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, events)
}

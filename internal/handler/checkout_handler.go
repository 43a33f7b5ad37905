package handler

import (
	"net/http"

	"github.com/gnbaba/TindaWise/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /checkout のレジAPI
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

// DI
func NewCheckoutHandler(uc *usecase.CheckoutUsecase) *CheckoutHandler {
	return &CheckoutHandler{uc: uc}
}

func (h *CheckoutHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/checkout", h.checkout)
}

type CheckoutItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

type CheckoutRequest struct {
	Items []CheckoutItemRequest `json:"items"`
}

func (h *CheckoutHandler) checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	lines := make([]usecase.CheckoutLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.CheckoutLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	sale, err := h.uc.Checkout(c.Request().Context(), usecase.CheckoutInput{Lines: lines})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, sale)
}

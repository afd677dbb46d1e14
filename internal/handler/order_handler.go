package handler

import (
	"net/http"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 注文のHTTP（userのみ）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type placeOrderRequest struct {
	CartID    int64 `json:"cart_id" form:"cart_id" validate:"required"`
	AddressID int64 `json:"address_id" form:"address_id" validate:"required"`
}

type cancelOrderRequest struct {
	OrderID string `json:"order_id" form:"order_id" validate:"required"`
}

// キー名は既存クライアントに合わせる
type orderResponse struct {
	Message    string `json:"message"`
	OrderID    string `json:"OrderId"`
	Quantity   int64  `json:"Quantity"`
	TotalPrice int64  `json:"Total_Price"`
	Mail       string `json:"Message"`
}

type ordersResponse struct {
	Message string                    `json:"message"`
	Orders  usecase.Page[model.Order] `json:"orders"`
}

const msgMailSent = "Mail Sent to Users Mail With Order Details"

func (h *OrderHandler) RegisterRoutes(r Routes) {
	r.API.POST("/placeorder", h.place, r.User...)
	r.API.POST("/cancelorder", h.cancel, r.User...)
	r.API.GET("/getorders", h.list, r.User...)
}

func (h *OrderHandler) place(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req placeOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.PlaceOrder(c.Request().Context(), userID, req.CartID, req.AddressID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, orderResponse{
		Message:    "Order Placed Successfully",
		OrderID:    out.OrderCode,
		Quantity:   out.Quantity,
		TotalPrice: out.TotalPrice,
		Mail:       msgMailSent,
	})
}

func (h *OrderHandler) cancel(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req cancelOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.CancelOrder(c.Request().Context(), userID, req.OrderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, orderResponse{
		Message:    "Order Cancelled Successfully",
		OrderID:    out.OrderCode,
		Quantity:   out.Quantity,
		TotalPrice: out.TotalPrice,
		Mail:       msgMailSent,
	})
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ListOrders(c.Request().Context(), userID, pageParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ordersResponse{Message: "Orders Fetched Successfully", Orders: out})
}

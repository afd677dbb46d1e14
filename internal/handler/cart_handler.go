package handler

import (
	"net/http"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カートのHTTP（userのみ）
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type addCartRequest struct {
	BookID       int64       `json:"book_id" form:"book_id" validate:"required"`
	BookQuantity optionalInt `json:"book_quantity" form:"book_quantity"`
}

type updateCartRequest struct {
	ID           int64       `json:"id" form:"id" validate:"required"`
	BookQuantity optionalInt `json:"book_quantity" form:"book_quantity" validate:"required"`
}

type cartIDRequest struct {
	ID int64 `json:"id" form:"id" validate:"required"`
}

type cartResponse struct {
	Message string                       `json:"message"`
	Cart    usecase.Page[model.CartLine] `json:"Cart"`
}

func (h *CartHandler) RegisterRoutes(r Routes) {
	r.API.POST("/addbooktocart", h.addToCart, r.User...)
	r.API.POST("/updatecart", h.updateCart, r.User...)
	r.API.POST("/deletecart", h.deleteCart, r.User...)
	r.API.GET("/getallcartbooksofuser", h.getCart, r.User...)
}

func (h *CartHandler) getCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	out, err := h.uc.ListCart(c.Request().Context(), userID, pageParam(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, cartResponse{Message: "Books Present in Cart::", Cart: out})
}

func (h *CartHandler) addToCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req addCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	_, err := h.uc.AddToCart(c.Request().Context(), userID, usecase.AddCartInput{
		BookID:       req.BookID,
		BookQuantity: req.BookQuantity.Ptr(),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Book Added to Cart Successfully"})
}

func (h *CartHandler) updateCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateCartRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.UpdateCart(c.Request().Context(), userID, req.ID, req.BookQuantity.Value); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Cart Updated Successfully"})
}

func (h *CartHandler) deleteCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req cartIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteCart(c.Request().Context(), userID, req.ID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Book Deleted Sucessfully from Cart"})
}

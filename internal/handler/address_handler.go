package handler

import (
	"net/http"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AddressHandler struct {
	uc *usecase.AddressUsecase
}

func NewAddressHandler(uc *usecase.AddressUsecase) *AddressHandler {
	return &AddressHandler{uc: uc}
}

type addressRequest struct {
	Address     string `json:"address" form:"address" validate:"required,min=5,max=150"`
	Landmark    string `json:"landmark" form:"landmark" validate:"required,min=5,max=50"`
	City        string `json:"city" form:"city" validate:"required,min=5,max=50"`
	State       string `json:"state" form:"state" validate:"required,min=5,max=50"`
	Pincode     int64  `json:"pincode" form:"pincode" validate:"required"`
	AddressType string `json:"address_type" form:"address_type"`
}

type updateAddressRequest struct {
	ID          int64  `json:"id" form:"id" validate:"required"`
	Address     string `json:"address" form:"address" validate:"required,min=5,max=150"`
	Landmark    string `json:"landmark" form:"landmark" validate:"required,min=5,max=50"`
	City        string `json:"city" form:"city" validate:"required,min=5,max=50"`
	State       string `json:"state" form:"state" validate:"required,min=5,max=50"`
	Pincode     int64  `json:"pincode" form:"pincode" validate:"required"`
	AddressType string `json:"address_type" form:"address_type"`
}

type addressIDRequest struct {
	ID int64 `json:"id" form:"id" validate:"required"`
}

type addressesResponse struct {
	Message   string               `json:"message"`
	Addresses []usecase.AddressDTO `json:"addresses"`
}

func (h *AddressHandler) RegisterRoutes(r Routes) {
	r.API.POST("/adduseraddress", h.Create, r.User...)
	r.API.POST("/updateuseraddress", h.Update, r.User...)
	r.API.POST("/deleteuseraddress", h.Delete, r.User...)
	r.API.GET("/getuseraddresses", h.List, r.User...)
}

func (h *AddressHandler) List(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	list, err := h.uc.List(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, addressesResponse{Message: "Addresses Fetched Successfully", Addresses: list})
}

func (h *AddressHandler) Create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req addressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if _, err := h.uc.Create(c.Request().Context(), userID, usecase.AddressRequest(req)); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Address Added Successfully"})
}

func (h *AddressHandler) Update(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateAddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	err := h.uc.Update(c.Request().Context(), userID, req.ID, usecase.AddressRequest{
		Address:     req.Address,
		Landmark:    req.Landmark,
		City:        req.City,
		State:       req.State,
		Pincode:     req.Pincode,
		AddressType: req.AddressType,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Address Updated Successfully"})
}

func (h *AddressHandler) Delete(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req addressIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), userID, req.ID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Address Deleted Successfully"})
}

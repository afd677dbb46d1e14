package handler

import (
	"net/http"
	"strconv"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/middleware"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/validator"

	"github.com/labstack/echo/v4"
)

// 返却JSONは必ずmessageを持つ
type MessageResponse struct {
	Message string `json:"message"`
}

// 400（入力の形）
type ValidationErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

const msgInvalidBody = "The given data was invalid."

// usecase/validatorのエラーをstatus + messageにする
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if de, ok := usecase.AsDomainError(err); ok {
		return c.JSON(de.Code, MessageResponse{Message: de.Message})
	}
	if ve, ok := validator.AsErrors(err); ok {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{Message: ve.Message(), Errors: ve.Fields})
	}

	//500
	return writeError(c, usecase.ErrInternal)
}

// Bind + Validate。bind失敗も400
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return &validator.Errors{Fields: map[string][]string{"body": {msgInvalidBody}}}
	}
	return c.Validate(req)
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	return middleware.UserID(c)
}

// ?page=（不正値は1ページ目）
func pageParam(c echo.Context) int {
	p, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func unauthorized(c echo.Context) error {
	return writeError(c, usecase.ErrInvalidToken)
}

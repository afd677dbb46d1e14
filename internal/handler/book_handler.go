package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/domain/model"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/repository"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"
	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/validator"

	"github.com/labstack/echo/v4"
)

// 画像は2MBまで
const maxImageBytes = 2048 * 1024

var imageExts = map[string]bool{
	".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".svg": true, ".tiff": true,
}

// 本のHTTP（一覧系は公開、更新系はadmin）
type BookHandler struct {
	uc      *usecase.BookUsecase
	ratings *usecase.RatingUsecase
}

// DI
func NewBookHandler(uc *usecase.BookUsecase, ratings *usecase.RatingUsecase) *BookHandler {
	return &BookHandler{uc: uc, ratings: ratings}
}

// addbook（multipartなら画像も）
type addBookRequest struct {
	Name        string      `json:"name" form:"name" validate:"required,min=3,max=50"`
	Description string      `json:"description" form:"description" validate:"required,min=5,max=1000"`
	Author      string      `json:"author" form:"author" validate:"required,min=5,max=50"`
	Price       optionalInt `json:"price" form:"price" validate:"required"`
	Quantity    optionalInt `json:"quantity" form:"quantity" validate:"required"`
}

type updateBookRequest struct {
	ID          int64       `json:"id" form:"id" validate:"required"`
	Name        string      `json:"name" form:"name" validate:"required,min=3,max=50"`
	Description string      `json:"description" form:"description" validate:"required,min=5,max=1000"`
	Author      string      `json:"author" form:"author" validate:"required,min=5,max=50"`
	Price       optionalInt `json:"price" form:"price" validate:"required"`
	Quantity    optionalInt `json:"quantity" form:"quantity" validate:"required"`
}

type addQuantityRequest struct {
	ID       int64       `json:"id" form:"id" validate:"required"`
	Quantity optionalInt `json:"quantity" form:"quantity" validate:"required"`
}

type bookIDRequest struct {
	ID int64 `json:"id" form:"id" validate:"required"`
}

type searchBookRequest struct {
	Search string `json:"search" form:"search" validate:"required"`
}

type booksResponse struct {
	Message string                   `json:"message"`
	Books   usecase.Page[model.Book] `json:"books"`
}

type bookRatingResponse struct {
	Message string             `json:"message"`
	Rating  usecase.BookRating `json:"rating"`
}

func (h *BookHandler) RegisterRoutes(r Routes) {
	r.API.GET("/getallbooks", h.list)
	r.API.POST("/searchbookbykey", h.search)
	r.API.GET("/sortbookbypricelowtohigh", h.sortAsc)
	r.API.GET("/sortbookbypricehightolow", h.sortDesc)
	r.API.GET("/getbookrating", h.rating)

	r.API.POST("/addbook", h.addBook, r.Admin...)
	r.API.POST("/updatebook", h.updateBook, r.Admin...)
	r.API.POST("/addquantity", h.addQuantity, r.Admin...)
	r.API.POST("/deletebook", h.deleteBook, r.Admin...)
}

func (h *BookHandler) addBook(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req addBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	img, closeImg, err := imageFromRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	defer closeImg()

	_, err = h.uc.AddBook(c.Request().Context(), adminID, usecase.BookInput{
		Name:        req.Name,
		Description: req.Description,
		Author:      req.Author,
		Price:       req.Price.Value,
		Quantity:    req.Quantity.Value,
		Image:       img,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Book Added Successfully"})
}

func (h *BookHandler) updateBook(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req updateBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	img, closeImg, err := imageFromRequest(c)
	if err != nil {
		return writeError(c, err)
	}
	defer closeImg()

	_, err = h.uc.UpdateBook(c.Request().Context(), adminID, req.ID, usecase.BookInput{
		Name:        req.Name,
		Description: req.Description,
		Author:      req.Author,
		Price:       req.Price.Value,
		Quantity:    req.Quantity.Value,
		Image:       img,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, MessageResponse{Message: "Book Updated Sucessfully"})
}

func (h *BookHandler) addQuantity(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req addQuantityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AddQuantity(c.Request().Context(), adminID, req.ID, req.Quantity.Value); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: "Book Quantity Added Successfully"})
}

func (h *BookHandler) deleteBook(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req bookIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.DeleteBook(c.Request().Context(), adminID, req.ID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Book Deleted Sucessfully"})
}

func (h *BookHandler) list(c echo.Context) error {
	page, err := h.uc.ListBooks(c.Request().Context(), pageParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booksResponse{Message: "Books Available in the Bookstore are::", Books: page})
}

func (h *BookHandler) search(c echo.Context) error {
	var req searchBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	page, err := h.uc.SearchBooks(c.Request().Context(), req.Search, pageParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booksResponse{Message: "Books Found Successfully", Books: page})
}

func (h *BookHandler) sortAsc(c echo.Context) error {
	return h.sorted(c, repository.SortPriceAsc)
}

func (h *BookHandler) sortDesc(c echo.Context) error {
	return h.sorted(c, repository.SortPriceDesc)
}

func (h *BookHandler) sorted(c echo.Context, sort string) error {
	page, err := h.uc.SortByPrice(c.Request().Context(), sort, pageParam(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, booksResponse{Message: "Books Sorted Successfully", Books: page})
}

// ?book_id=
func (h *BookHandler) rating(c echo.Context) error {
	bookID, err := strconv.ParseInt(c.QueryParam("book_id"), 10, 64)
	if err != nil || bookID <= 0 {
		return writeError(c, validator.FieldError("book_id", "The book id field is required."))
	}

	r, err := h.ratings.AverageRating(c.Request().Context(), bookID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bookRatingResponse{Message: "Book Rating Fetched Successfully", Rating: r})
}

// multipart以外・画像なしは (nil, nop, nil)
func imageFromRequest(c echo.Context) (*usecase.ImageUpload, func(), error) {
	nop := func() {}
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, nop, nil
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nop, nil
	}
	if err != nil {
		return nil, nop, validator.FieldError("image", "The image failed to upload.")
	}

	if !imageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return nil, nop, validator.FieldError("image", "The image must be a file of type: jpeg, png, jpg, gif, svg, tiff.")
	}
	if fh.Size > maxImageBytes {
		return nil, nop, validator.FieldError("image", "The image may not be greater than 2048 kilobytes.")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, nop, validator.FieldError("image", "The image failed to upload.")
	}
	return &usecase.ImageUpload{Filename: fh.Filename, Body: f}, func() { _ = f.Close() }, nil
}

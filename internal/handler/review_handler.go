package handler

import (
	"net/http"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 評価とフィードバック（注文済みのuserのみ）
type ReviewHandler struct {
	ratings   *usecase.RatingUsecase
	feedbacks *usecase.FeedbackUsecase
}

func NewReviewHandler(ratings *usecase.RatingUsecase, feedbacks *usecase.FeedbackUsecase) *ReviewHandler {
	return &ReviewHandler{ratings: ratings, feedbacks: feedbacks}
}

type addRatingRequest struct {
	UserRating optionalInt `json:"user_rating" form:"user_rating" validate:"required"`
	OrderID    string      `json:"order_id" form:"order_id" validate:"required"`
}

type addFeedbackRequest struct {
	UserFeedback string `json:"user_feedback" form:"user_feedback" validate:"required,min=5,max=1000"`
}

func (h *ReviewHandler) RegisterRoutes(r Routes) {
	r.API.POST("/addrating", h.addRating, r.User...)
	r.API.POST("/addfeedback", h.addFeedback, r.User...)
}

func (h *ReviewHandler) addRating(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req addRatingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	// 0..5以外はusecaseで406
	if err := h.ratings.AddRating(c.Request().Context(), userID, req.OrderID, int(req.UserRating.Value)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: "Rating Added Successfully"})
}

func (h *ReviewHandler) addFeedback(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return unauthorized(c)
	}

	var req addFeedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.feedbacks.AddFeedback(c.Request().Context(), userID, req.UserFeedback); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, MessageResponse{Message: "FeedBack Added Successfully. Thank You For Your FeedBack."})
}

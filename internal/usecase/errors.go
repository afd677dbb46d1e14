package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// 業務ルール違反。handlerがそのままstatus + messageにする
type DomainError struct {
	Code    int
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func NewDomainError(code int, message string) error {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

// よく使うもの
var (
	ErrInvalidToken = NewDomainError(http.StatusUnauthorized, "Invalid Authorization Token")
	ErrNotUser      = NewDomainError(http.StatusNotFound, "You are Not a User")
	ErrNotAdmin     = NewDomainError(http.StatusNotFound, "User Is Not a Admin")

	ErrBookExists      = NewDomainError(http.StatusConflict, "Book Already Exits in BookStore")
	ErrBookNotFound    = NewDomainError(http.StatusNotFound, "Book Not Found")
	ErrInvalidPrice    = NewDomainError(http.StatusNotAcceptable, "Invalid price Input")
	ErrInvalidQuantity = NewDomainError(http.StatusNotAcceptable, "Invalid Quantity Input")
	ErrNoRatings       = NewDomainError(http.StatusNotFound, "Ratings Not Found For This Book")

	ErrCartQuantity = NewDomainError(http.StatusNotAcceptable, "Quantity Cannot be < 0 or > Quantity in Store")
	ErrInCart       = NewDomainError(http.StatusConflict, "Book Already In Cart")
	ErrCartNotFound = NewDomainError(http.StatusNotFound, "Cart Not Found")

	ErrInvalidAddressType   = NewDomainError(http.StatusNotAcceptable, "Invalid Address Type")
	ErrAddressNotFound      = NewDomainError(http.StatusNotFound, "Address Not Found")
	ErrAddressUpdateMissing = NewDomainError(http.StatusNotFound, "Address Not Found, Add Address First")

	ErrOrderExists      = NewDomainError(http.StatusConflict, "Already Placed an Order")
	ErrStoreBookMissing = NewDomainError(http.StatusNotFound, "Book Not Found in Store")
	ErrOutOfStock       = NewDomainError(http.StatusNotAcceptable, "Book Stock is Not Available in The Store")
	ErrInvalidOrderID   = NewDomainError(http.StatusNotAcceptable, "Invalid OrderID")
	ErrOrderNotFound    = NewDomainError(http.StatusNotFound, "Order Not Found")

	ErrInvalidRating = NewDomainError(http.StatusNotAcceptable, "Rating Should be +ve and less than 5")
	ErrAlreadyRated  = NewDomainError(http.StatusConflict, "You Already Gave Rating For Your Order")
	ErrNoOrders      = NewDomainError(http.StatusNotFound, "Orders Not Found. First Make an Order and Give Feedback")
	ErrFeedbackGiven = NewDomainError(http.StatusConflict, "You Have Already Given Us a FeedBack. Thank You For Your FeedBack.")

	ErrInternal = NewDomainError(http.StatusInternalServerError, "internal error")
)

// DBなど想定外の失敗。中身はログに残して500にする
func dbError(log *zap.Logger, op string, err error) error {
	log.Error(op+" failed", zap.Error(err))
	return ErrInternal
}

package notify

import (
	"fmt"
	"strings"

	"github.com/ArafathvBaig/Book-Store-App-Backend/internal/usecase"
)

const (
	subjectOrderPlaced    = "Order Placed Successfully"
	subjectOrderCancelled = "Order Cancelled Successfully"
)

// 注文メールを組み立てる。contactは問い合わせ先のアドレス
func Render(n usecase.Notification, contact string) (usecase.Mail, error) {
	var subject, headline, closing string
	switch n.Kind {
	case usecase.NotificationOrderPlaced:
		subject = subjectOrderPlaced
		headline = "Your Order is Confirmed."
		closing = "Save the OrderId For Further Communication."
	case usecase.NotificationOrderCancelled:
		subject = subjectOrderCancelled
		headline = "Your Order is Cancelled."
		closing = "Your Order has been Successfully Cancelled."
	default:
		return usecase.Mail{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s<br>", n.FirstName, headline)
	b.WriteString("<br>Your Order Details::")
	fmt.Fprintf(&b, "<br>Order Id: %s", n.OrderCode)
	fmt.Fprintf(&b, "<br>Book Name: %s", n.BookName)
	fmt.Fprintf(&b, "<br>Book Author: %s", n.BookAuthor)
	fmt.Fprintf(&b, "<br>Book Price: %d", n.BookPrice)
	fmt.Fprintf(&b, "<br>Book Quantity: %d", n.Quantity)
	fmt.Fprintf(&b, "<br>Total Payment: %d", n.TotalPrice)
	fmt.Fprintf(&b, "<br>%s", closing)
	fmt.Fprintf(&b, "<br>For Further Querry Contact This Email Id: %s", contact)
	b.WriteString("<br>Thank you for using our Application!")

	return usecase.Mail{
		To:      n.To,
		ToName:  strings.TrimSpace(n.FirstName + " " + n.LastName),
		Subject: subject,
		HTML:    b.String(),
	}, nil
}

// テキスト版（<br>を改行に）
func plainText(html string) string {
	return strings.ReplaceAll(html, "<br>", "\n")
}

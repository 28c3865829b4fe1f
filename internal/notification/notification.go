package notification

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

type Type string

const (
	TypeBookingCreated    Type = "BOOKING_CREATED"
	TypeBookingAccepted   Type = "BOOKING_ACCEPTED"
	TypeBookingRejected   Type = "BOOKING_REJECTED"
	TypeBookingInProgress Type = "BOOKING_IN_PROGRESS"
	TypeBookingCompleted  Type = "BOOKING_COMPLETED"
	TypeBookingCancelled  Type = "BOOKING_CANCELLED"
	TypePaymentSuccess    Type = "PAYMENT_SUCCESS"
	TypePaymentFailed     Type = "PAYMENT_FAILED"
	TypeReviewReceived    Type = "REVIEW_RECEIVED"
)

var ErrNotFound = fmt.Errorf("notification %w", apperr.ErrNotFound)

// Notification is an in-app message. Only IsRead changes after creation.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	Link      string
	IsRead    bool
	CreatedAt time.Time
}

func New(userID uuid.UUID, typ Type, title, msg, link string) *Notification {
	return &Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: msg,
		Link:    link,
	}
}

func BookingLink(bookingID uuid.UUID) string {
	return "/dashboard/bookings/" + bookingID.String()
}

const (
	EarningsLink = "/dashboard/earnings"
	ReviewsLink  = "/dashboard/reviews"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders cents as a dollar amount with thousands separators,
// e.g. 112500 becomes "$1,125.00".
func FormatAmount(cents int64) string {
	sign := ""
	abs := uint64(cents)

	if cents < 0 {
		sign = "-"
		abs = -abs
	}

	return sign + printer.Sprintf("$%d", abs/100) + fmt.Sprintf(".%02d", abs%100)
}

func BookingCreated(workerID, bookingID uuid.UUID, days int) *Notification {
	return New(workerID, TypeBookingCreated,
		"New Booking Request",
		fmt.Sprintf("You have a new booking request for %d days", days),
		BookingLink(bookingID),
	)
}

func PaymentSucceeded(customerID, bookingID uuid.UUID, total int64) *Notification {
	return New(customerID, TypePaymentSuccess,
		"Payment Successful",
		fmt.Sprintf("Your payment of %s was successful", FormatAmount(total)),
		BookingLink(bookingID),
	)
}

func PaymentReceived(workerID uuid.UUID, earning int64) *Notification {
	return New(workerID, TypePaymentSuccess,
		"Payment Received",
		fmt.Sprintf("You received %s for a booking", FormatAmount(earning)),
		EarningsLink,
	)
}

func PaymentFailed(customerID, bookingID uuid.UUID) *Notification {
	return New(customerID, TypePaymentFailed,
		"Payment Failed",
		"Your payment failed. Please try again.",
		BookingLink(bookingID),
	)
}

func ReviewReceived(recipientID uuid.UUID, rating int) *Notification {
	return New(recipientID, TypeReviewReceived,
		"New Review",
		fmt.Sprintf("You received a %d-star review", rating),
		ReviewsLink,
	)
}

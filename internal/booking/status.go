package booking

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
	"github.com/MrJamesThe3rd/wandura/internal/auth"
	"github.com/MrJamesThe3rd/wandura/internal/notification"
)

// Status is the operational state of a booking.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusAccepted   Status = "ACCEPTED"
	StatusRejected   Status = "REJECTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusAccepted, StatusRejected, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

// actors names the participant allowed to move a booking into each state.
var actors = map[Status]auth.Role{
	StatusAccepted:   auth.RoleWorker,
	StatusRejected:   auth.RoleWorker,
	StatusInProgress: auth.RoleWorker,
	StatusCompleted:  auth.RoleWorker,
	StatusCancelled:  auth.RoleCustomer,
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}

	return false
}

func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}

	return false
}

// label renders the status for humans, e.g. IN_PROGRESS becomes "in progress".
func (s Status) label() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}

// checkTransition decides whether caller may move b to next. Ownership is
// checked before legality so outsiders learn nothing about the booking state.
func checkTransition(b *Booking, caller auth.Identity, next Status) error {
	if !b.IsParticipant(caller.UserID) {
		return apperr.Authorization("not a participant of booking %s", b.ID)
	}

	role, ok := actors[next]
	if !ok {
		return apperr.Validation("bookings cannot be moved to %s", next)
	}

	switch role {
	case auth.RoleWorker:
		if caller.UserID != b.WorkerID {
			return apperr.Authorization("only the assigned worker can set %s", next)
		}
	case auth.RoleCustomer:
		if caller.UserID != b.CustomerID {
			return apperr.Authorization("only the customer can set %s", next)
		}
	}

	if b.Status.IsTerminal() {
		return apperr.Validation("booking %s is %s and can no longer change", b.ID, b.Status)
	}

	if !b.Status.CanTransitionTo(next) {
		return apperr.Validation("cannot move booking from %s to %s", b.Status, next)
	}

	return nil
}

var noticeTypes = map[Status]notification.Type{
	StatusAccepted:   notification.TypeBookingAccepted,
	StatusRejected:   notification.TypeBookingRejected,
	StatusInProgress: notification.TypeBookingInProgress,
	StatusCompleted:  notification.TypeBookingCompleted,
	StatusCancelled:  notification.TypeBookingCancelled,
}

// transitionNotice addresses the participant who did not make the change.
func transitionNotice(b *Booking, next Status) *notification.Notification {
	recipient := b.CustomerID
	msg := "Your booking has been " + next.label()

	if next == StatusInProgress {
		msg = "Your booking is now in progress"
	}

	if next == StatusCancelled {
		recipient = b.WorkerID
		msg = "A booking has been cancelled by the customer"
	}

	return notification.New(recipient, noticeTypes[next], "Booking "+title(next), msg, notification.BookingLink(b.ID))
}

// A Caser keeps state between calls, so one is built per use.
func title(s Status) string {
	return cases.Title(language.English).String(s.label())
}

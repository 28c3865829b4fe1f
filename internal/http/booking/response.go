package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/booking"
	"github.com/MrJamesThe3rd/wandura/internal/worker"
)

type locationResponse struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type bookingResponse struct {
	ID            uuid.UUID             `json:"id"`
	CustomerID    uuid.UUID             `json:"customer_id"`
	WorkerID      uuid.UUID             `json:"worker_id"`
	ProjectID     *uuid.UUID            `json:"project_id,omitempty"`
	Skill         worker.Skill          `json:"skill,omitempty"`
	StartDate     string                `json:"start_date"`
	EndDate       string                `json:"end_date"`
	TotalDays     int                   `json:"total_days"`
	RatePerDay    int64                 `json:"rate_per_day"`
	TotalAmount   int64                 `json:"total_amount"`
	Commission    int64                 `json:"commission"`
	WorkerEarning int64                 `json:"worker_earning"`
	Description   string                `json:"description"`
	Location      locationResponse      `json:"location"`
	Status        booking.Status        `json:"status"`
	PaymentStatus booking.PaymentStatus `json:"payment_status"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

func toResponse(b *booking.Booking) bookingResponse {
	return bookingResponse{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		WorkerID:      b.WorkerID,
		ProjectID:     b.ProjectID,
		Skill:         b.Skill,
		StartDate:     b.StartDate.Format(time.DateOnly),
		EndDate:       b.EndDate.Format(time.DateOnly),
		TotalDays:     b.TotalDays,
		RatePerDay:    b.RatePerDay,
		TotalAmount:   b.TotalAmount,
		Commission:    b.Commission,
		WorkerEarning: b.WorkerEarning(),
		Description:   b.Description,
		Location: locationResponse{
			Address: b.Location.Address,
			City:    b.Location.City,
			State:   b.Location.State,
			ZipCode: b.Location.ZipCode,
		},
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toResponseList(bookings []*booking.Booking) []bookingResponse {
	resp := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		resp[i] = toResponse(b)
	}

	return resp
}

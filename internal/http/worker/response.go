package worker

import (
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/worker"
)

type profileResponse struct {
	UserID        uuid.UUID    `json:"user_id"`
	Name          string       `json:"name"`
	Skill         worker.Skill `json:"skill"`
	DailyRate     int64        `json:"daily_rate"`
	HourlyRate    *int64       `json:"hourly_rate,omitempty"`
	Experience    int          `json:"experience"`
	Bio           string       `json:"bio,omitempty"`
	City          string       `json:"city"`
	IsAvailable   bool         `json:"is_available"`
	Rating        float64      `json:"rating"`
	TotalReviews  int          `json:"total_reviews"`
	TotalEarnings *int64       `json:"total_earnings,omitempty"`
	WalletBalance *int64       `json:"wallet_balance,omitempty"`
}

// toResponse renders p. Balances are only included for the worker themself.
func toResponse(p *worker.Profile, own bool) profileResponse {
	resp := profileResponse{
		UserID:       p.UserID,
		Name:         p.Name,
		Skill:        p.Skill,
		DailyRate:    p.DailyRate,
		HourlyRate:   p.HourlyRate,
		Experience:   p.Experience,
		Bio:          p.Bio,
		City:         p.City,
		IsAvailable:  p.IsAvailable,
		Rating:       p.Rating,
		TotalReviews: p.TotalReviews,
	}

	if own {
		resp.TotalEarnings = new(p.TotalEarnings)
		resp.WalletBalance = new(p.WalletBalance)
	}

	return resp
}

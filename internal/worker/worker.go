package worker

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/wandura/internal/apperr"
)

type Skill string

const (
	SkillMason       Skill = "MASON"
	SkillTileLayer   Skill = "TILE_LAYER"
	SkillWelder      Skill = "WELDER"
	SkillSteelFixer  Skill = "STEEL_FIXER"
	SkillCarpenter   Skill = "CARPENTER"
	SkillPlumber     Skill = "PLUMBER"
	SkillElectrician Skill = "ELECTRICIAN"
	SkillPainter     Skill = "PAINTER"
)

var ErrNotFound = fmt.Errorf("worker profile %w", apperr.ErrNotFound)

// Profile holds a worker's rate, rating and balances. Balances only change
// through relative increments applied at settlement.
type Profile struct {
	UserID        uuid.UUID
	Name          string
	Skill         Skill
	DailyRate     int64 // cents
	HourlyRate    *int64
	Experience    int
	Bio           string
	City          string
	IsAvailable   bool
	TotalEarnings int64
	WalletBalance int64
	Rating        float64
	TotalReviews  int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Public returns a copy with the private balances cleared.
func (p *Profile) Public() *Profile {
	cp := *p
	cp.TotalEarnings = 0
	cp.WalletBalance = 0

	return &cp
}

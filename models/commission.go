package models

// Rate tables
const (
	TableImpulsor   = "impulsor"
	TableConsumidor = "consumidor"
)

// MaxCommissionLevels is the depth of the referral tree that earns commission
const MaxCommissionLevels = 4

// CommissionLevelSetting is the rate of one tree depth; position in the table
// implies the level.
type CommissionLevelSetting struct {
	Percentage float64 `json:"percentage" validate:"gte=0,lte=100"`
	Active     bool    `json:"active"`
}

type CommissionSettingsRequest struct {
	Levels []CommissionLevelSetting `json:"levels" validate:"required,len=4,dive"`
}

// CommissionEntry is derived per request and never persisted
type CommissionEntry struct {
	Level      int     `json:"level"`
	FromUser   string  `json:"fromUser"`
	PackageID  string  `json:"packageId"`
	AmountPaid float64 `json:"amountPaid"`
	Commission float64 `json:"commission"`
}

type LevelEarnings struct {
	Level      int               `json:"level"`
	Percentage float64           `json:"percentage"`
	Active     bool              `json:"active"`
	Referrals  int               `json:"referrals"`
	Entries    []CommissionEntry `json:"entries"`
	Earnings   float64           `json:"earnings"`
}

type CommissionReport struct {
	Viewer           string          `json:"viewer"`
	Table            string          `json:"table"`
	Levels           []LevelEarnings `json:"levels"`
	PersonalEarnings float64         `json:"personalEarnings"`
	TeamEarnings     float64         `json:"teamEarnings"`
	TotalEarnings    float64         `json:"totalEarnings"`
}

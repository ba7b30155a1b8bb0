package core

import (
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Config lendpool config
type Config struct {
	App    App          `json:"app"`
	DB     db.Config    `json:"db"`
	Oracle Oracle       `json:"oracle"`
	Pools  []PoolOption `json:"pools"`
	Admins []string     `json:"admins"`
}

// IsAdmin check if the user is admin
func (c *Config) IsAdmin(userID string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == userID {
			return true
		}
	}

	return false
}

// App app config
type App struct {
	// Vault holder of the pooled assets on the ledger
	Vault string `json:"vault"`
	// ReservePercent share of accrued interest kept as reserves, 0.05 when unset
	ReservePercent *decimal.Decimal `json:"reserve_percent"`
	Genesis        []GenesisBalance `json:"genesis"`
}

// GenesisBalance initial ledger balance
type GenesisBalance struct {
	AssetID string          `json:"asset_id"`
	Holder  string          `json:"holder"`
	Amount  decimal.Decimal `json:"amount"`
}

// Oracle price oracle config
type Oracle struct {
	EndPoint string `json:"end_point"`
	// CacheTTL seconds
	CacheTTL int64                      `json:"cache_ttl"`
	Prices   map[string]decimal.Decimal `json:"prices"`
}

// PoolOption pool created on startup
type PoolOption struct {
	AssetID          string          `json:"asset_id"`
	Status           string          `json:"status"`
	BaseRate         decimal.Decimal `json:"base_rate"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	JumpMultiplier   decimal.Decimal `json:"jump_multiplier"`
	Kink             decimal.Decimal `json:"kink"`
	CollateralFactor decimal.Decimal `json:"collateral_factor"`
	LiquidationBonus decimal.Decimal `json:"liquidation_bonus"`
}

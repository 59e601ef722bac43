package config

import "github.com/painelquick/backend/pkg/config"

const (
	HistoryOnCompletion = "completion"
	HistoryOnPlacement  = "placement"
	HistoryBoth         = "both"
)

type ServiceConfig struct {
	config.Config
}

// Load is used by the server, which also signs tokens.
func Load() ServiceConfig {
	cfg := LoadForJobs()
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	return cfg
}

// LoadForJobs requires only what the database jobs need.
func LoadForJobs() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustOneOf(cfg.DeliveryHistoryMode, "DELIVERY_HISTORY_MODE",
		HistoryOnCompletion, HistoryOnPlacement, HistoryBoth)

	return ServiceConfig{Config: cfg}
}

func (c ServiceConfig) HistoryAtPlacement() bool {
	return c.DeliveryHistoryMode == HistoryOnPlacement || c.DeliveryHistoryMode == HistoryBoth
}

func (c ServiceConfig) HistoryAtCompletion() bool {
	return c.DeliveryHistoryMode == HistoryOnCompletion || c.DeliveryHistoryMode == HistoryBoth
}

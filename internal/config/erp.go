package config

import (
	"os"
	"strconv"
	"time"

	"budget-sync-backend/internal/erp"
)

// LoadERPConfig reads the accounting-system endpoint settings from env vars.
// The config is passed to the gateway at construction; nothing here is
// process-global, so different tenants/environments can hold different configs.
func LoadERPConfig() erp.Config {
	cfg := erp.Config{
		BaseURL:  envOr("ERP_BASE_URL", "http://localhost:8091/erp/odata"),
		Username: os.Getenv("ERP_USERNAME"),
		Password: os.Getenv("ERP_PASSWORD"),
		Timeout:  30 * time.Second,
	}
	if raw := os.Getenv("ERP_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	return cfg
}

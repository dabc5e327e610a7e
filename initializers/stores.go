package initializers

import (
	"os"
	"strconv"
	"time"

	"github.com/lakshya189/sonicart-api/utils"
)

// Shared-store capabilities, assigned once at startup.
var (
	Tokens  utils.TokenStore
	Limiter utils.RateLimiter
)

func InitStores() {
	limit := 100
	if raw := os.Getenv("RATE_LIMIT_PER_MINUTE"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	Tokens = utils.NewMemoryTokenStore(15 * time.Minute)
	Limiter = utils.NewWindowRateLimiter(limit, time.Minute)
}

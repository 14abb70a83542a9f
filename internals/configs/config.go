package configs

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	JWTSecret      string
	AppTimezone    string
	BillingDueDay  int
	MidtransEnable bool
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using system ENV")
	} else {
		slog.Info(".env file loaded")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	AppTimezone = GetEnv("APP_TZ", "America/Sao_Paulo")
	BillingDueDay = GetEnvInt("BILLING_DUE_DAY", 10)
	MidtransEnable = GetEnv("MIDTRANS_ENABLED") == "true"

	if JWTSecret == "" {
		slog.Warn("JWT_SECRET is not set, staff routes will reject every token")
	}
	if BillingDueDay < 1 || BillingDueDay > 28 {
		slog.Warn("BILLING_DUE_DAY out of range, falling back to 10", "value", BillingDueDay)
		BillingDueDay = 10
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

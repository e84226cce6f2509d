package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Env struct {
	AppAddr string
	GinMode string

	// MySQL
	DBUser string
	DBPass string
	DBHost string
	DBName string

	// Paystack
	PaystackSecretKey string
	PaystackBaseURL   string

	// Optional collaborators; empty means disabled.
	AMQPURL   string
	RedisAddr string

	SeatHoldTTL time.Duration
	JWTSecret   string
}

func LoadEnv() Env {
	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	ginMode := strings.TrimSpace(os.Getenv("GIN_MODE"))

	dbUser := strings.TrimSpace(os.Getenv("DB_USER"))
	if dbUser == "" {
		dbUser = "root"
	}
	dbHost := strings.TrimSpace(os.Getenv("DB_HOST"))
	if dbHost == "" {
		dbHost = "127.0.0.1:3306"
	}
	dbName := strings.TrimSpace(os.Getenv("DB_NAME"))
	if dbName == "" {
		dbName = "transitpay"
	}

	baseURL := strings.TrimSpace(os.Getenv("PAYSTACK_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}

	holdTTL := 10 * time.Minute
	if v := strings.TrimSpace(os.Getenv("SEAT_HOLD_TTL_MINUTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			holdTTL = time.Duration(n) * time.Minute
		}
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		jwtSecret = "super-secret-key-change-me"
	}

	return Env{
		AppAddr:           appAddr,
		GinMode:           ginMode,
		DBUser:            dbUser,
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            dbHost,
		DBName:            dbName,
		PaystackSecretKey: strings.TrimSpace(os.Getenv("PAYSTACK_SECRET_KEY")),
		PaystackBaseURL:   baseURL,
		AMQPURL:           strings.TrimSpace(os.Getenv("AMQP_URL")),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		SeatHoldTTL:       holdTTL,
		JWTSecret:         jwtSecret,
	}
}

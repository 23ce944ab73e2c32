package config

import (
	"os"

	"github.com/dmitrijs2005/gophsignup/internal/flagx"
	"github.com/joho/godotenv"
)

// dotEnvFiles are loaded, when present, before the environment is read.
// Variables already set in the process environment win.
var dotEnvFiles = []string{".env"}

// parseEnv overlays Config with environment variables:
//
//	DATABASE_URL   PostgreSQL connection URL
//	SECRET_KEY     access token HMAC secret
//	REDIS_ADDR     attempt limiter backend
//	KAFKA_BROKERS  comma separated broker list
func parseEnv(config *Config) {
	var present []string
	for _, f := range dotEnvFiles {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		if err := godotenv.Load(present...); err != nil {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv("DATABASE_URL"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := os.LookupEnv("KAFKA_BROKERS"); ok {
		config.KafkaBrokers = flagx.SplitList(v)
	}
}

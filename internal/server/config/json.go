package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophsignup/internal/flagx"
	"github.com/dmitrijs2005/gophsignup/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "15m" and integer nanoseconds are accepted.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	EnsureSchemaOnRegister      *bool          `json:"ensure_schema_on_register"`
	RedisAddr                   string         `json:"redis_addr"`
	AttemptLimit                int            `json:"attempt_limit"`
	AttemptWindow               timex.Duration `json:"attempt_window"`
	KafkaBrokers                []string       `json:"kafka_brokers"`
	KafkaTopic                  string         `json:"kafka_topic"`
}

// parseJson loads the file named by -c / -config and copies every value it
// sets into config; keys absent from the file leave config untouched.
// A missing or malformed file panics, as the server cannot start anyway.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JSONConfigPath()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.EnsureSchemaOnRegister != nil {
		config.EnsureSchemaOnRegister = *c.EnsureSchemaOnRegister
	}
	if c.RedisAddr != "" {
		config.RedisAddr = c.RedisAddr
	}
	if c.AttemptLimit != 0 {
		config.AttemptLimit = c.AttemptLimit
	}
	if c.AttemptWindow.Duration != 0 {
		config.AttemptWindow = c.AttemptWindow.Duration
	}
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	if c.KafkaTopic != "" {
		config.KafkaTopic = c.KafkaTopic
	}
}

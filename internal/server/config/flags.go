package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophsignup/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   access token HMAC secret key
//	-t int      access token validity, minutes
//	-m bool     run the schema initializer before every registration
//	-r string   Redis address for the attempt limiter
//	-l int      allowed attempts per window
//	-w int      attempt window, minutes
//	-k string   comma separated Kafka brokers
//	-q string   Kafka topic for verification codes
//
// os.Args is first filtered with flagx.FilterArgs so -c/-config and flags of
// other components do not break parsing. Durations are given in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-r", "-l", "-w", "-k", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.BoolVar(&config.EnsureSchemaOnRegister, "m", config.EnsureSchemaOnRegister, "ensure schema before every registration")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address for attempt limiting")
	fs.IntVar(&config.AttemptLimit, "l", config.AttemptLimit, "allowed attempts per window")
	attemptWindow := fs.Int("w", int(config.AttemptWindow.Minutes()), "attempt window (in minutes)")
	kafkaBrokers := fs.String("k", strings.Join(config.KafkaBrokers, ","), "kafka brokers, comma separated")
	fs.StringVar(&config.KafkaTopic, "q", config.KafkaTopic, "kafka topic for verification codes")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.AttemptWindow = time.Duration(*attemptWindow) * time.Minute
	config.KafkaBrokers = flagx.SplitList(*kafkaBrokers)
}

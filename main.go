package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/centbook/backend/internal/currency"
	"github.com/centbook/backend/internal/models"
	"github.com/centbook/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Local development configuration is read from a .env file, it is
	// not an error when there is none
	_ = godotenv.Load()

	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	apiURL, err := url.Parse(defaultEnv("API_URL", "http://localhost:8080"))
	if err != nil {
		log.Fatal().Err(err).Msg("API_URL is not a valid URL")
	}

	// Create data directory
	dataDir := filepath.Join(".", "data")
	err = os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	err = models.Connect(filepath.Join(dataDir, "centbook.db"))
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	rates := rateCache()

	r, teardown, err := router.Config(apiURL)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(r.Group(""), rates)

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// rateCache sets up the exchange rate cache from the environment.
func rateCache() *currency.Cache {
	base := defaultEnv("RATE_BASE_CURRENCY", "EUR")
	apiURL := defaultEnv("RATE_API_URL", currency.DefaultAPIURL)

	// With a TTL of 0, cached rates never expire
	ttl := time.Duration(0)
	if raw, ok := os.LookupEnv("RATE_TTL"); ok {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal().Err(err).Msg("RATE_TTL is not a valid duration")
		}
		ttl = parsed
	}

	return currency.New(base, currency.NewHTTPFetcher(apiURL, base), ttl)
}

func defaultEnv(name, fallback string) string {
	value, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}

	return value
}

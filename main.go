package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/personal-blog-backend/api"
	"github.com/rpupo63/personal-blog-backend/config"
	"github.com/rpupo63/personal-blog-backend/database"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/rpupo63/personal-blog-backend/services"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	c := config.New()
	setupLogger(c)
	if envErr != nil {
		log.Warn().Err(envErr).Msg("no .env file loaded")
	}

	log.Info().Str("dbType", config.GetString(c, "DB_TYPE", database.TypePostgres)).Msg("Initializing app...")

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	currentDB := database.New(db)

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if err := models.GenerateColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error migrating database")
	}

	if config.GetBool(c, "SEED_DATABASE", false) {
		if _, err := services.NewSeeder(currentDB, services.SeedOptionsFromConfig(c)).Run(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Error seeding database")
		}
		return
	}

	tokens, err := services.NewTokenService(
		config.GetString(c, "JWT_SECRET", ""),
		time.Duration(config.GetInt(c, "JWT_TTL_HOURS", 24))*time.Hour,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring tokens")
	}

	limiter, closeLimiter, err := services.NewLoginLimiter(context.Background(), c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error configuring login rate limit")
	}
	defer closeLimiter()

	notifier := services.NewCommentNotifier(services.NewMailer(c), c)
	if notifier == nil {
		log.Info().Msg("comment notifications disabled")
	}

	// Buffered so that Start and listenToInterrupt never block after shutdown.
	errChannel := make(chan error, 2)

	server, err := api.NewServer(currentDB, c,
		api.WithTokenService(tokens),
		api.WithLoginLimiter(limiter),
		api.WithCommentNotifier(notifier),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogger applies LOG_LEVEL and LOG_FORMAT to the global zerolog logger.
func setupLogger(c config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.EqualFold(config.GetString(c, "LOG_FORMAT", "json"), "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "github.com/voiceconnect/backend/pkg/internal"
	"github.com/voiceconnect/backend/pkg/internal/database"
	"github.com/voiceconnect/backend/pkg/internal/grpc"
	"github.com/voiceconnect/backend/pkg/internal/http"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

// sweepInterval validates the configured cron spec for the call request
// expiry sweep. A bad or missing spec must not silently disable the sweep.
func sweepInterval(raw string) string {
	if _, err := cron.ParseStandard(raw); err != nil {
		log.Warn().Err(err).Str("interval", raw).Msg("Invalid call request sweep interval, using @every 30s instead...")
		return "@every 30s"
	}
	return raw
}

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Connect to database
	if err := database.NewSource(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connect to database.")
	} else if err := database.RunMigration(database.C); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration.")
	}

	// Wire up the signal relay and the call request arbiter
	services.SetupRealtime()

	// Server
	http.NewServer()
	go http.Listen()

	go func() {
		if err := grpc.NewGrpc().Listen(); err != nil {
			log.Fatal().Err(err).Msg("An error occurred when starting grpc server...")
		}
	}()

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc(sweepInterval(viper.GetString("calling.request_sweep_interval")), func() {
		services.Calls.ExpireStaleCallRequests()
	})
	quartz.AddFunc("@every 60m", services.DoAutoDatabaseCleanup)
	quartz.Start()

	log.Info().Msgf("VoiceConnect v%s is started...", pkg.AppVersion)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msgf("VoiceConnect v%s is quitting...", pkg.AppVersion)

	quartz.Stop()
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"codeberg.org/arlest/sensorpub/internal/api"
	"codeberg.org/arlest/sensorpub/internal/board"
	"codeberg.org/arlest/sensorpub/internal/config"
	"codeberg.org/arlest/sensorpub/internal/journal"
	"codeberg.org/arlest/sensorpub/internal/logger"
	"codeberg.org/arlest/sensorpub/internal/pid"
	"codeberg.org/arlest/sensorpub/internal/publish"
	"codeberg.org/arlest/sensorpub/internal/schedule"
	"codeberg.org/arlest/sensorpub/internal/sensor"
)

const shutdownTimeout = 5 * time.Second

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, logger.IsService()); err != nil {
		logger.Warn().Err(err).Msg("Invalid log level, using info")
	}
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("Startup failed")
		os.Exit(1)
	}
}

func run() error {
	if err := pid.Write(); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	brd, err := board.New(board.Config{
		Source: cfg.Board.Source,
		Seed:   cfg.Board.Seed,
	})
	if err != nil {
		return err
	}

	jnl, err := journal.NewService(journal.Config{
		Enabled: cfg.Journal.Enabled,
		DBPath:  cfg.Journal.Database,
	}, logger.Default())
	if err != nil {
		return err
	}

	clk := clock.New()

	sink, err := buildSinks(clk, jnl)
	if err != nil {
		return err
	}

	sched, err := schedule.New(schedule.Config{
		Interval:           time.Duration(cfg.Interval) * time.Second,
		MinPublishInterval: time.Duration(cfg.MinPublishInterval) * time.Second,
		MaxPublishInterval: time.Duration(cfg.MaxPublishInterval) * time.Second,
		TimeToStale:        time.Duration(cfg.TimeToStale) * time.Second,
	}, clk, sink, buildAdapters(brd))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(ctx, cancel, sched)

	var apiSrv *api.Server
	if cfg.API.Enabled {
		apiSrv, err = api.NewServer(api.Config{Listen: cfg.API.Listen}, sched)
		if err != nil {
			return err
		}
		if err := apiSrv.Start(ctx); err != nil {
			return err
		}
	}

	sched.Start(ctx)

	<-ctx.Done()
	cleanup(sched, apiSrv, jnl)

	return nil
}

func buildAdapters(brd board.Board) []sensor.Adapter {
	t := cfg.Thresholds

	return []sensor.Adapter{
		sensor.NewLight(brd.Light, t.Light),
		sensor.NewPressure(brd.Pressure, t.Pressure),
		sensor.NewTemperature(brd.Temperature, t.Temperature),
		sensor.NewAcceleration(brd.Acceleration, t.Acceleration),
		sensor.NewGyro(brd.AngularVelocity, t.Gyro),
		sensor.NewLocation(brd.Location, t.Location),
	}
}

// buildSinks assembles the publish fan-out: the log sink always, the HTTP
// sink when an endpoint is configured, and the journal last so it only
// archives batches every other sink accepted.
func buildSinks(clk clock.Clock, jnl journal.Journal) (publish.Sink, error) {
	sinks := []publish.Sink{publish.NewLogSink(logger.Default())}

	if cfg.Publish.Endpoint != "" {
		httpSink, err := publish.NewHTTPSink(publish.HTTPConfig{
			Endpoint: cfg.Publish.Endpoint,
			Timeout:  time.Duration(cfg.Publish.Timeout) * time.Second,
		}, clk)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, httpSink)
	}

	sinks = append(sinks, publish.NewJournalSink(jnl, clk))

	return publish.NewMulti(sinks...), nil
}

func handleSignals(ctx context.Context, cancel context.CancelFunc, sched *schedule.Scheduler) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)

	for sig := range sigs {
		switch sig {
		case syscall.SIGUSR1:
			logger.Info().Msg("Received SIGUSR1, pausing sampling")
			sched.Stop()
		case syscall.SIGUSR2:
			logger.Info().Msg("Received SIGUSR2, resuming sampling")
			sched.Start(ctx)
		default:
			logger.Info().Msg("Received termination signal.")
			cancel()

			return
		}
	}
}

func cleanup(sched *schedule.Scheduler, apiSrv *api.Server, jnl journal.Journal) {
	sched.Stop()

	if apiSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to shut down status API")
		}
	}

	if err := jnl.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close journal")
	}

	logger.Info().Msg("Exiting...")
}

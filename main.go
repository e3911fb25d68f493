package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"pfeifer.dev/roadlimit/cereal"
	"pfeifer.dev/roadlimit/cli"
	"pfeifer.dev/roadlimit/server"
	"pfeifer.dev/roadlimit/settings"
	"pfeifer.dev/roadlimit/utils"
)

func main() {
	opts := cli.Handle()

	s := settings.Settings{}
	s.LoadWithRetries(5)
	if opts.LogLevel != "" {
		slog.SetLogLoggerLevel(settings.ParseLogLevel(opts.LogLevel))
	}

	cfg, err := settings.LoadConfig(opts.ConfigPath)
	if err != nil {
		slog.Error("could not load config", "error", err)
		os.Exit(1)
	}
	if cfg.Network.Interface == "" {
		cfg.Network.Interface = s.Interface
	}

	pub, err := cereal.NewAdvisoryPublisher(cfg.Bus.AdvisoryTopic)
	if err != nil {
		slog.Error("could not create advisory publisher", "error", err)
		os.Exit(1)
	}

	deps := server.Deps{Publisher: pub}
	vehicle, err := cereal.NewVehicleSubscriber(cfg.Bus.VehicleTopic)
	if err != nil {
		utils.Logwe(errors.Wrap(err, "running without vehicle state"))
	} else {
		defer vehicle.Close()
		if !vehicle.WaitReady(10) {
			slog.Info("no vehicle state yet, distances will not count down until it arrives")
		}
		deps.Vehicle = &vehicle
	}
	location, err := cereal.NewLocationSubscriber(cfg.Bus.LocationTopic)
	if err != nil {
		utils.Logwe(errors.Wrap(err, "running without gps relay"))
	} else {
		defer location.Close()
		deps.Location = &location
	}

	srv := server.New(cfg, deps)
	if err := srv.Bind(); err != nil {
		slog.Error("could not start", "error", err)
		os.Exit(1)
	}
	slog.Info("listening", "addr", srv.Addr().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := srv.Run(ctx); err != nil {
		slog.Error("daemon stopped", "error", err)
	}
}

package cli

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"

	"pfeifer.dev/roadlimit/cereal"
	"pfeifer.dev/roadlimit/navi"
	"pfeifer.dev/roadlimit/params"
	"pfeifer.dev/roadlimit/settings"
)

// Options are the flags of the bare daemon command.
type Options struct {
	ConfigPath string
	LogLevel   string
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a yaml file overriding ports, timings and bus topics",
	}
}

func loadConfig(cmd *cli.Command) (settings.Config, error) {
	return settings.LoadConfig(cmd.String("config"))
}

// Handle parses the command line. Subcommands run to completion and exit the
// process; the bare command returns the daemon options.
func Handle() Options {
	shouldExit := true
	opts := Options{}
	cmd := &cli.Command{
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Overrides the log level from the saved settings",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Open the terminal interface for settings and live advisories",
				Flags:   []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					runUI(cfg.Bus.AdvisoryTopic, showMenu)
					return nil
				},
			},
			{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Watch the advisories a running daemon publishes",
				Flags:   []cli.Flag{configFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadConfig(cmd)
					if err != nil {
						return err
					}
					runUI(cfg.Bus.AdvisoryTopic, showOutput)
					return nil
				},
			},
			{
				Name:    "settings",
				Aliases: []string{"s"},
				Usage:   "Edit the saved settings with line prompts",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					editSettings()
					return nil
				},
			},
			{
				Name:  "params",
				Usage: "List the params the daemon reads its settings from",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					names, err := params.GetParams()
					if err != nil {
						return err
					}
					for _, name := range names {
						data, err := params.GetParam(name)
						if err != nil {
							fmt.Printf("%s: %v\n", name, err)
							continue
						}
						fmt.Printf("%s: %s\n", name, data)
					}
					return nil
				},
			},
			sendCommand(),
			driveCommand(),
		},
		Name:  "roadlimit",
		Usage: "Start the road limit daemon",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			shouldExit = false
			opts.ConfigPath = cmd.String("config")
			opts.LogLevel = cmd.String("log-level")
			return nil
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}

	if shouldExit {
		os.Exit(0)
	}
	return opts
}

func sendCommand() *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "Send one navigation datagram to a daemon",
		ArgsUsage: "[json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Address of the daemon",
				Value: "127.0.0.1",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Receive port of the daemon",
				Value: settings.RECEIVE_PORT,
			},
			&cli.IntFlag{
				Category: "Datagram",
				Name:     "active",
				Usage:    "Navigation app active flag",
				Value:    -1,
			},
			&cli.Float64Flag{
				Category: "Datagram",
				Name:     "cam-limit",
				Usage:    "Camera limit speed of a road_limit group",
			},
			&cli.Float64Flag{
				Category: "Datagram",
				Name:     "cam-dist",
				Usage:    "Distance in metres to the camera of a road_limit group",
			},
			&cli.IntFlag{
				Category: "Datagram",
				Name:     "cam-type",
				Usage:    "Camera type of a road_limit group",
			},
			&cli.StringFlag{
				Category: "Datagram",
				Name:     "apilot-type",
				Usage:    "Type of an apilot sample, e.g. opkrspdlimit",
			},
			&cli.StringFlag{
				Category: "Datagram",
				Name:     "apilot-value",
				Usage:    "Value of the apilot sample",
			},
			&cli.BoolFlag{
				Category: "Datagram",
				Name:     "request-gps",
				Usage:    "Ask the daemon to stream gps locations back",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			payload, err := buildDatagram(cmd)
			if err != nil {
				return err
			}
			addr := net.JoinHostPort(cmd.String("host"), strconv.Itoa(int(cmd.Int("port"))))
			conn, err := net.Dial("udp4", addr)
			if err != nil {
				return errors.Wrapf(err, "could not dial %s", addr)
			}
			defer conn.Close()
			if _, err := conn.Write(payload); err != nil {
				return errors.Wrap(err, "could not send datagram")
			}

			buf := make([]byte, settings.MAX_DATAGRAM)
			_ = conn.SetReadDeadline(time.Now().Add(time.Second))
			n, err := conn.Read(buf)
			if err != nil {
				fmt.Printf("sent %s\n", payload)
				return nil
			}
			fmt.Printf("sent %s, reply %s\n", payload, buf[:n])
			return nil
		},
	}
}

func buildDatagram(cmd *cli.Command) ([]byte, error) {
	if cmd.Args().Len() > 0 {
		raw := []byte(cmd.Args().First())
		if _, err := navi.Decode(raw); err != nil {
			return nil, err
		}
		return raw, nil
	}

	d := navi.Datagram{}
	if cmd.IsSet("active") {
		active := int(cmd.Int("active"))
		d.Active = &active
	}
	if cmd.IsSet("cam-limit") || cmd.IsSet("cam-dist") || cmd.IsSet("cam-type") {
		rl := navi.DefaultRoadLimit()
		rl.CamLimitSpeed = cmd.Float64("cam-limit")
		rl.CamLimitSpeedLeftDist = cmd.Float64("cam-dist")
		rl.CamType = int(cmd.Int("cam-type"))
		d.RoadLimit = &rl
	}
	if cmd.IsSet("apilot-type") {
		d.Apilot = &navi.Apilot{
			Type:  cmd.String("apilot-type"),
			Value: cmd.String("apilot-value"),
			SDI:   navi.EmptySDI(),
		}
	}
	if cmd.IsSet("request-gps") {
		gps := cmd.Bool("request-gps")
		d.RequestGps = &gps
	}
	return d.Encode()
}

func driveCommand() *cli.Command {
	return &cli.Command{
		Name:  "drive",
		Usage: "Publish simulated vehicle state so a daemon can count down distances",
		Flags: []cli.Flag{
			configFlag(),
			&cli.Float64Flag{
				Name:  "speed",
				Usage: "Simulated speed in m/s",
				Value: 15,
			},
			&cli.DurationFlag{
				Name:  "duration",
				Usage: "How long to drive for",
				Value: time.Minute,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			pub, err := cereal.NewVehiclePublisher(cfg.Bus.VehicleTopic)
			if err != nil {
				return err
			}

			speed := cmd.Float64("speed")
			period := cfg.Timing.PublishPeriod
			ticker := time.NewTicker(period)
			defer ticker.Stop()
			deadline := time.After(cmd.Duration("duration"))

			v := cereal.Vehicle{VEgo: speed}
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-deadline:
					fmt.Printf("drove %.0f m\n", v.TotalDistance)
					return nil
				case <-ticker.C:
					v.TotalDistance += speed * period.Seconds()
					if err := pub.Publish(v); err != nil {
						return err
					}
				}
			}
		},
	}
}

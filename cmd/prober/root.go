package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rtt-prober/internal/config"
	"rtt-prober/internal/database"
	"rtt-prober/internal/models"
	"rtt-prober/internal/monitor"
	"rtt-prober/internal/output"
	"rtt-prober/internal/ping"
	"rtt-prober/internal/targets"
)

// env carries the process-level collaborators so tests can replace them
type env struct {
	fs        afero.Fs
	stdout    io.Writer
	log       *logrus.Logger
	newProber func(cfg config.Config) models.Prober
}

func newPinger(cfg config.Config) models.Prober {
	return ping.New(ping.WithBinary(cfg.PingBinary))
}

func newRootCmd(e env) *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "prober",
		Short: "Ping every target a fixed number of times and print latency records",
		Long: `prober reads one host per line from the target list and sends four
ICMP echo requests to each host in turn through the system ping command.
Each reply is printed as "<YYYY-MM-DD HH:MM:SS>\t<host>\t<rtt>".
Failed probes print nothing.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.New(), cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return errors.Wrap(err, "invalid configuration")
			}

			level, _ := logrus.ParseLevel(cfg.LogLevel)
			e.log.SetLevel(level)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return run(ctx, cfg, e)
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Optional config file (yaml, toml or json)")
	config.RegisterFlags(cmd.Flags())
	cmd.AddCommand(newRecordsCmd(e, &cfgFile))

	return cmd
}

// run loads the targets and drives one full probe run
func run(ctx context.Context, cfg config.Config, e env) error {
	list, err := targets.Load(e.fs, cfg.TargetsPath)
	if err != nil {
		return err
	}
	e.log.WithFields(logrus.Fields{
		"path":    cfg.TargetsPath,
		"targets": len(list),
	}).Info("Targets loaded")

	out, err := output.OpenFile(e.fs, cfg.OutputPath, e.stdout)
	if err != nil {
		return err
	}
	defer out.Close()

	sinks := []models.Sink{out}

	if cfg.DatabasePath != "" {
		db, err := openDatabase(cfg, e.log)
		if err != nil {
			return err
		}
		defer db.Close()
		sinks = append(sinks, db.Sink())
	}

	sched := monitor.New(e.newProber(cfg), output.Multi(sinks...), cfg.Interval,
		monitor.WithLogger(e.log))

	if _, err := sched.Run(ctx, list); err != nil {
		if errors.Is(err, context.Canceled) {
			e.log.Warn("Probe run interrupted")
			return nil
		}
		return err
	}
	return nil
}

func openDatabase(cfg config.Config, log logrus.FieldLogger) (*database.DB, error) {
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.Retention > 0 {
		n, err := db.Prune(time.Now().Add(-cfg.Retention))
		if err != nil {
			db.Close()
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"removed":   n,
			"retention": cfg.Retention,
		}).Info("Pruned stored records")
	}

	return db, nil
}

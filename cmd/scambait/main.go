package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/scambait/internal/profile"
	"github.com/hrygo/scambait/server"
	"github.com/hrygo/scambait/store"
	"github.com/hrygo/scambait/store/db"
)

const greetingBanner = `
 ___  ___ __ _ _ __ ___ | |__   __ _(_) |_
/ __|/ __/ _` + "`" + ` | '_ ` + "`" + ` _ \| '_ \ / _` + "`" + ` | | __|
\__ \ (_| (_| | | | | | | |_) | (_| | | |_
|___/\___\__,_|_| |_| |_|_.__/ \__,_|_|\__|
`

var rootCmd = &cobra.Command{
	Use:   "scambait",
	Short: "A honeypot service that detects scammers and wastes their time",
	RunE: func(_ *cobra.Command, _ []string) error {
		instanceProfile := profile.Default()
		instanceProfile.Mode = viper.GetString("mode")
		instanceProfile.Addr = viper.GetString("addr")
		instanceProfile.Port = viper.GetInt("port")
		instanceProfile.Data = viper.GetString("data")
		instanceProfile.Driver = viper.GetString("driver")
		instanceProfile.DSN = viper.GetString("dsn")
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}

		setupLogger(instanceProfile.Mode)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		dbDriver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}

		storeInstance := store.New(dbDriver, instanceProfile)
		if err := storeInstance.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			slog.Info("shutdown signal received")
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Print(greetingBanner)
		fmt.Printf("Version %s, mode %s, listening on %s:%d\n",
			instanceProfile.Version, instanceProfile.Mode, instanceProfile.Addr, instanceProfile.Port)

		if err := s.Start(ctx); err != nil {
			if ctx.Err() == nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
		}
		<-ctx.Done()
		return nil
	},
}

func setupLogger(mode string) {
	level := slog.LevelInfo
	if mode == "dev" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

func init() {
	defaults := profile.Default()

	rootCmd.PersistentFlags().String("mode", defaults.Mode, `mode of server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", defaults.Addr, "address of server")
	rootCmd.PersistentFlags().Int("port", defaults.Port, "port of server")
	rootCmd.PersistentFlags().String("data", defaults.Data, "data directory")
	rootCmd.PersistentFlags().String("driver", defaults.Driver, "database driver")
	rootCmd.PersistentFlags().String("dsn", defaults.DSN, "database source name (aka. DSN)")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("scambait")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

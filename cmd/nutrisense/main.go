package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/nutrisense/insight"
	"github.com/hrygo/nutrisense/insight/baseline"
	"github.com/hrygo/nutrisense/insight/model"
	"github.com/hrygo/nutrisense/insight/pattern"
	"github.com/hrygo/nutrisense/insight/warning"
	"github.com/hrygo/nutrisense/insight/whatif"
	"github.com/hrygo/nutrisense/internal/profile"
	"github.com/hrygo/nutrisense/server"
	"github.com/hrygo/nutrisense/store"
	"github.com/hrygo/nutrisense/store/db"
)

var rootCmd = &cobra.Command{
	Use:   "nutrisense",
	Short: "Predictive insight engine for nutrition and behavior tracking",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input.json>",
	Short: "Run all pattern analyzers over a history file and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(args[0])
		if err != nil {
			return err
		}
		engine := newEngine()
		analysis, err := engine.Analyze(cmd.Context(), in)
		if err != nil {
			return err
		}
		return printJSON(analysis)
	},
}

var warningsCmd = &cobra.Command{
	Use:   "warnings <input.json>",
	Short: "Run the early-warning checks over a history file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(args[0])
		if err != nil {
			return err
		}
		engine := newEngine()
		report, err := engine.DetectWarnings(cmd.Context(), "cli", in, nil)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <input.json> <action>",
	Short: "Project a what-if action against the baseline from a history file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := readInput(args[0])
		if err != nil {
			return err
		}
		params := map[string]float64{}
		raw := viper.GetString("params")
		if raw != "" {
			if err := json.Unmarshal([]byte(raw), &params); err != nil {
				return fmt.Errorf("invalid --params: %w", err)
			}
		}
		engine := newEngine()
		sim, err := engine.Simulate(cmd.Context(), "cli", whatif.Request{
			Action: whatif.ActionType(args[1]),
			Params: params,
		}, in)
		if err != nil {
			return err
		}
		return printJSON(sim)
	},
}

// cliInput is the file format accepted by the analyze/warnings/simulate
// subcommands.
type cliInput struct {
	Days       []model.DayRecord   `json:"days"`
	Profile    *model.Profile      `json:"profile"`
	Products   model.ProductIndex  `json:"products"`
	Thresholds *pattern.Thresholds `json:"thresholds,omitempty"`
}

func readInput(path string) (*pattern.Input, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var in cliInput
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}
	return &pattern.Input{
		Days:       in.Days,
		Profile:    in.Profile,
		Products:   in.Products,
		Thresholds: in.Thresholds,
	}, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

const version = "0.1.0"

// getProfile assembles the server profile from flags and environment.
func getProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		Mode:    viper.GetString("mode"),
		Addr:    viper.GetString("addr"),
		Port:    viper.GetInt("port"),
		Data:    viper.GetString("data"),
		Driver:  viper.GetString("driver"),
		DSN:     viper.GetString("dsn"),
		Version: version,
	}
	p.FromEnv()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// newEngine builds the insight engine from the environment and any config
// overrides loaded by viper.
func newEngine() *insight.Engine {
	instanceProfile := &profile.Profile{}
	instanceProfile.FromEnv()

	opts := []insight.Option{
		insight.WithLogger(slog.Default()),
		insight.WithCache(baseline.NewLRUCache(
			instanceProfile.CacheCapacity,
			time.Duration(instanceProfile.CacheTTLMinutes)*time.Minute,
		)),
	}
	if instanceProfile.AnalyzerConcurrency > 0 {
		opts = append(opts, insight.WithConcurrency(instanceProfile.AnalyzerConcurrency))
	}
	if viper.IsSet("warnings") {
		thresholds := warning.DefaultThresholds()
		if err := viper.UnmarshalKey("warnings", thresholds); err == nil {
			opts = append(opts, insight.WithWarningThresholds(thresholds))
		}
	}
	return insight.New(pattern.DefaultRegistry(), opts...)
}

func runServer(ctx context.Context) error {
	instanceProfile, err := getProfile()
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var st *store.Store
	if instanceProfile.PersistSnapshots {
		driver, err := db.NewDBDriver(instanceProfile)
		if err != nil {
			return fmt.Errorf("failed to create db driver: %w", err)
		}
		if err := driver.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		st = store.New(driver, instanceProfile)
	}

	engine := newEngine()
	srv, err := server.NewServer(ctx, instanceProfile, st, engine)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		srv.Shutdown(ctx)
		cancel()
	}()

	return srv.Start(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("config", "", "path to a YAML config with analyzer thresholds")
	simulateCmd.Flags().String("params", "", "JSON object of action parameters")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("params", simulateCmd.Flags().Lookup("params")); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("nutrisense")
	viper.AutomaticEnv()

	cobra.OnInitialize(func() {
		if cfg := viper.GetString("config"); cfg != "" {
			viper.SetConfigFile(cfg)
			if err := viper.ReadInConfig(); err != nil {
				slog.Warn("failed to read config file", "path", cfg, "error", err)
			}
		}
	})

	rootCmd.AddCommand(analyzeCmd, warningsCmd, simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

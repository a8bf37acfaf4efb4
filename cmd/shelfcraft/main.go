package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shelfcraft/internal/config"
)

var (
	// Global flags
	verbose    bool
	baseURL    string
	configPath string

	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shelfcraft",
	Short: "shelfcraft - interactive shelf placement board",
	Long: `shelfcraft is a terminal client for a shelf placement service.

It shows a store zone's shelf layout next to its live KPIs, lets you move
products between inventory and slots, and asks the remote optimizer for
predicted placements. The server is the single authority: every mutation
applies the layout and metrics the server echoes back, as one unit.

Run without arguments to start the interactive board.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if baseURL != "" {
			cfg.Server.BaseURL = baseURL
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// The interactive board owns the terminal; keep its logs out of it.
		if cmd.CalledAs() == "shelfcraft" {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Placement backend address (overrides config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Config file path")

	productsCmd.Flags().StringVar(&productZone, "zone", "", "Score products for this zone")
	productsCmd.Flags().StringVarP(&productQuery, "query", "q", "", "Free-text name filter")
	productsCmd.Flags().StringVar(&productCat, "cat", "", "Category filter")
	productsCmd.Flags().StringVar(&productSort, "sort", "score", "Sort key: score, price_desc, price_asc, margin_desc, velocity_desc")

	moveCmd.Flags().StringVar(&movePID, "pid", "", "Product id to place (required)")
	moveCmd.Flags().IntVar(&moveTo, "to", -1, "Target slot index (required)")
	moveCmd.Flags().IntVar(&moveFrom, "from", -1, "Source slot index for slot-to-slot moves")
	moveCmd.MarkFlagRequired("pid")
	moveCmd.MarkFlagRequired("to")

	historyCmd.Flags().StringVar(&historyZone, "zone", "", "Filter to one zone")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum entries")

	mockCmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:8000", "Listen address")

	rootCmd.AddCommand(zonesCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(mockCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

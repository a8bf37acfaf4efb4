package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shelfcraft/internal/api"
	"shelfcraft/internal/journal"
	"shelfcraft/internal/mockapi"
	"shelfcraft/internal/retail"
	"shelfcraft/internal/sections"
)

var (
	productZone  string
	productQuery string
	productCat   string
	productSort  string

	movePID  string
	moveTo   int
	moveFrom int

	historyZone  string
	historyLimit int

	mockAddr string
)

// newClient builds the transport client from the resolved config.
func newClient() *api.Client {
	client := api.NewClient(api.NewAddress(cfg.Server.BaseURL), logger)
	client.SetTimeout(cfg.GetTimeout())
	return client
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cfg.GetTimeout())
}

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the store zones",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		zones, err := newClient().Zones(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tCAPACITY\tWEIGHTS (vel/mar/price/fit)")
		for _, z := range zones {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f/%.1f/%.1f/%.1f\n",
				z.ID, z.Name, z.Type, z.Capacity,
				z.Weight.Velocity, z.Weight.Margin, z.Weight.Price, z.Weight.Fit)
		}
		return w.Flush()
	},
}

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products, optionally filtered and scored for a zone",
	RunE: func(cmd *cobra.Command, args []string) error {
		key := retail.SortKey(productSort)
		if !key.Valid() {
			return fmt.Errorf("unknown sort key %q", productSort)
		}

		ctx, cancel := cmdContext()
		defer cancel()

		products, err := newClient().Products(ctx, retail.ProductFilter{
			ZoneID:   productZone,
			Query:    productQuery,
			Category: productCat,
			Sort:     key,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCAT\tPRICE\tMARGIN\tVELOCITY\tSCORE")
		for _, p := range products {
			score := "-"
			if p.Score != nil {
				score = fmt.Sprintf("%.2f", *p.Score)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t$%.2f\t%.0f%%\t%.0f%%\t%s\n",
				p.ID, p.Name, p.Cat, p.Price, p.Margin*100, p.Velocity*100, score)
		}
		return w.Flush()
	},
}

// printState renders a layout+metrics pair the way mutating commands share.
func printState(st retail.ZoneState) {
	for i, pid := range st.Layout {
		if pid == "" {
			pid = "·"
		}
		fmt.Printf("  slot %d: %s\n", i, pid)
	}
	m := st.Metrics
	fmt.Printf("fill %.0f%%  avg ticket $%.2f  est daily $%.0f  margin %.0f%%  categories %d  score %.1f\n",
		m.FillRate*100, m.AvgTicket, m.EstDailySales, m.AvgMarginRate*100, m.Categories, m.ScoreSum)
}

var predictCmd = &cobra.Command{
	Use:   "predict [zone-id]",
	Short: "Ask the optimizer for a predicted placement",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		st, err := newClient().Predict(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("predicted placement for %s:\n", args[0])
		printState(st)
		recordAction(ctx, "predict", args[0], st)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [zone-id]",
	Short: "Clear a zone's shelf",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := cmdContext()
		defer cancel()

		st, err := newClient().Clear(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("cleared %s\n", args[0])
		printState(st)
		recordAction(ctx, "clear", args[0], st)
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move [zone-id]",
	Short: "Place or move a product on a zone's shelf",
	Long: `Places a product into a slot. With --from the move is slot-to-slot
(the server swaps or displaces as it sees fit); without it the product is
placed from the catalog.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := retail.MoveRequest{
			Origin: retail.OriginInventory,
			PID:    movePID,
			ToSlot: moveTo,
		}
		if moveFrom >= 0 {
			req.Origin = retail.OriginSlot
			req.FromSlot = &moveFrom
		}

		ctx, cancel := cmdContext()
		defer cancel()

		st, err := newClient().Move(ctx, args[0], req)
		if err != nil {
			return err
		}
		fmt.Printf("moved %s to slot %d in %s\n", movePID, moveTo, args[0])
		printState(st)
		recordAction(ctx, "move", args[0], st)
		return nil
	},
}

// recordAction appends to the journal when it is enabled. Journal failures
// never fail the command.
func recordAction(ctx context.Context, action, zoneID string, st retail.ZoneState) {
	if !cfg.Journal.Enabled {
		return
	}
	j, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		logger.Warn("journal unavailable", zap.Error(err))
		return
	}
	defer j.Close()
	if err := j.Record(ctx, action, zoneID, st); err != nil {
		logger.Warn("journal write failed", zap.Error(err))
	}
}

var sectionsCmd = &cobra.Command{
	Use:   "sections [slug]",
	Short: "Show a store section brief (produce, dairy, meat, grocery)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Println("available sections:")
			for _, slug := range sections.Slugs() {
				s, _ := sections.Get(slug)
				fmt.Printf("  %-10s %s\n", slug, s.Description)
			}
			return nil
		}
		s, ok := sections.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown section %q (try: %v)", args[0], sections.Slugs())
		}
		fmt.Print(s.Render(100))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent placement actions from the local journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer j.Close()

		ctx, cancel := cmdContext()
		defer cancel()

		entries, err := j.ListRecent(ctx, historyZone, historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("no recorded actions")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tZONE\tFILL\tSCORE")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\t%.1f\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"), e.Action, e.ZoneID,
				e.Metrics.FillRate*100, e.Metrics.ScoreSum)
		}
		return w.Flush()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show backend reachability and client self-test results",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("backend:  %s\n", cfg.Server.BaseURL)
		fmt.Printf("config:   %s\n", configPath)
		fmt.Printf("journal:  %s (enabled=%v)\n", cfg.Journal.Path, cfg.Journal.Enabled)

		status, _ := runSelfCheck()
		fmt.Printf("selftest: %s\n", status)

		ctx, cancel := cmdContext()
		defer cancel()
		zones, err := newClient().Zones(ctx)
		if err != nil {
			fmt.Printf("reach:    FAILED (%v)\n", err)
			return nil
		}
		fmt.Printf("reach:    OK (%d zones)\n", len(zones))
		return nil
	},
}

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run the built-in mock placement backend",
	Long: `Serves the placement wire contract from an in-memory store with a
deterministic stand-in scorer. Useful for demos and offline development:

  shelfcraft mock &
  shelfcraft --base-url http://127.0.0.1:8000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return mockapi.NewServer(logger).Run(mockAddr)
	},
}

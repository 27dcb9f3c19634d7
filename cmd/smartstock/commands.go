package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Keshavr57/SmartStock/internal/app"
	"github.com/Keshavr57/SmartStock/internal/common"
	"github.com/Keshavr57/SmartStock/internal/models"
	"github.com/Keshavr57/SmartStock/internal/services/advisor"
)

// appBuilder constructs the App from a config path.
type appBuilder func(configPath string) (*app.App, error)

// cli carries the lazily built App through the command tree.
type cli struct {
	build appBuilder
	app   *app.App
	json  bool
}

func newRootCmd(build appBuilder) *cobra.Command {
	c := &cli{build: build}
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "smartstock",
		Short: "SmartStock - financial education advisor for Indian markets",
		Long: `SmartStock answers questions about Indian stocks, IPOs and market concepts.

Answers are educational and never investment advice. Trade ideas can be
submitted for a risk review with:

  smartstock ask "TRADING_RISK_ASSESSMENT: BUY 10 RELIANCE (stock) at 2450"`,
		Version:       common.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.build(configPath)
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $SMARTSTOCK_CONFIG or config/smartstock.toml)")
	rootCmd.PersistentFlags().BoolVar(&c.json, "json", false, "output in JSON format")

	rootCmd.AddCommand(c.newAskCmd())
	rootCmd.AddCommand(c.newIPOCmd())
	rootCmd.AddCommand(c.newStocksCmd())
	return rootCmd
}

func (c *cli) newAskCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the advisor a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			if data, ok := c.app.Advisor.Sentinel(cmd.Context(), text); ok {
				return writeJSON(out, data)
			}

			reply, err := c.app.Advisor.Process(cmd.Context(), models.Query{Text: text, UserID: userID})
			if err != nil {
				return errors.New(advisor.UserMessage(err))
			}
			if c.json {
				return writeJSON(out, map[string]string{"status": reply.Status, "answer": reply.Answer})
			}
			fmt.Fprintln(out, reply.Answer)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "caller identifier for logging")
	return cmd
}

func (c *cli) newIPOCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ipo",
		Short: "IPO listings and risk assessments",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "assess <name>",
		Short: "Score an IPO's risk from promoter holding, company age and profit history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, text := c.app.Advisor.AssessIPO(strings.Join(args, " "))
			if c.json {
				return writeJSON(cmd.OutOrStdout(), a)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List current IPOs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records := c.app.Advisor.LiveIPOs(cmd.Context())
			if c.json {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-36s %-14s %-14s %-10s %s\n", "Name", "Open", "Close", "Type", "Status")
			fmt.Fprintln(out, strings.Repeat("─", 88))
			for _, r := range records {
				fmt.Fprintf(out, "%-36s %-14s %-14s %-10s %s\n", r.Name, r.OpenDate, r.CloseDate, r.Type, r.Status)
			}
			return nil
		},
	})

	return cmd
}

func (c *cli) newStocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stocks",
		Short: "Show the landing snapshot of headline stocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stocks := c.app.Advisor.LandingStocks(cmd.Context())
			if c.json {
				return writeJSON(cmd.OutOrStdout(), stocks)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-32s %12s %9s %8s\n", "Symbol", "Name", "Price", "Change", "Volume")
			fmt.Fprintln(out, strings.Repeat("─", 75))
			for _, s := range stocks {
				fmt.Fprintf(out, "%-10s %-32s %12.2f %+8.2f%% %8s\n", s.Symbol, s.Name, s.Price, s.Change, s.Vol)
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

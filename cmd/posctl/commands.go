package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/georgemunganga/printa-pos/internal/app"
	"github.com/georgemunganga/printa-pos/internal/config"
	"github.com/georgemunganga/printa-pos/internal/logging"
	"github.com/georgemunganga/printa-pos/internal/modules/analytics"
	"github.com/georgemunganga/printa-pos/internal/modules/catalog"
	"github.com/georgemunganga/printa-pos/internal/modules/pos"
)

type cli struct {
	envFile string
	verbose bool
	app     *app.App
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "posctl",
		Short:         "Operator console for the register",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if c.envFile != "" {
				files = append(files, c.envFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			log, err := logging.NewDevelopment(c.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			c.app, err = app.New(cfg, log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
				_ = c.app.Log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env", "", "env file to load (default .env)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(c.catalogCmd(), c.sellCmd(), c.ledgerCmd(), c.reportCmd())
	return root
}

func (c *cli) catalogCmd() *cobra.Command {
	var search, category string
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List products with their current stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products := c.app.POS.SearchCatalog(cmd.Context(), search, category)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tCATEGORY\tPRICE\tSTOCK")
			for _, p := range products {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n",
					p.ItemName, catalog.DisplayCategory(p.Category), analytics.FormatCurrency(p.UnitPrice), p.CurrentInventory)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "match name or description")
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	return cmd
}

func (c *cli) sellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sell NAME=QTY...",
		Short: "Ring up a sale and record it in the ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var cart pos.Cart
			for _, arg := range args {
				name, qty, err := parseSaleArg(arg)
				if err != nil {
					return err
				}
				p, ok := c.app.POS.GetProductByName(ctx, name)
				if !ok {
					return fmt.Errorf("%w: %s", pos.ErrProductNotFound, name)
				}
				prev := quantityIn(&cart, name)
				if err := cart.Add(ctx, p, c.app.POS); err != nil {
					return err
				}
				if qty > 1 {
					if err := cart.SetQuantity(ctx, name, prev+qty, c.app.POS); err != nil {
						return err
					}
				}
			}

			txs, err := c.app.POS.Checkout(ctx, cart.Lines(), time.Now())
			if err != nil {
				return err
			}
			cart.Clear()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, tx := range txs {
				fmt.Fprintf(tw, "%s\t%d x %s\t%s\n",
					tx.ProductName, tx.Quantity, analytics.FormatCurrency(tx.UnitPrice), analytics.FormatCurrency(tx.TotalPrice))
			}
			fmt.Fprintf(tw, "TOTAL\t\t%s\n", analytics.FormatCurrency(analytics.TotalSales(txs)))
			fmt.Fprintf(tw, "%s\t\t\n", c.app.Analytics.FormatDate(txs[0].Date))
			return tw.Flush()
		},
	}
}

// parseSaleArg splits "Iced Tea=2" into its name and quantity. A bare name
// means one unit.
func parseSaleArg(arg string) (string, int, error) {
	i := strings.LastIndex(arg, "=")
	if i < 0 {
		return strings.TrimSpace(arg), 1, nil
	}
	name := strings.TrimSpace(arg[:i])
	qty, err := strconv.Atoi(strings.TrimSpace(arg[i+1:]))
	if err != nil || qty <= 0 || name == "" {
		return "", 0, fmt.Errorf("bad sale %q: want NAME=QTY with QTY > 0", arg)
	}
	return name, qty, nil
}

func quantityIn(cart *pos.Cart, name string) int {
	for _, l := range cart.Lines() {
		if l.ProductName == name {
			return l.Quantity
		}
	}
	return 0
}

func (c *cli) ledgerCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Print recorded transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				limit = math.MaxInt
			}
			txs := c.app.POS.RecentTransactions(cmd.Context(), limit)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tPRODUCT\tCATEGORY\tQTY\tTOTAL")
			for _, tx := range txs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
					c.app.Analytics.FormatDate(tx.Date), tx.ProductName, catalog.DisplayCategory(tx.Category),
					tx.Quantity, analytics.FormatCurrency(tx.TotalPrice))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", pos.DefaultRecentLimit, "how many transactions, 0 for all")
	return cmd
}

func (c *cli) reportCmd() *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the sales dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := analytics.ParsePeriod(period)
			if err != nil {
				return err
			}
			d := c.app.Analytics.Dashboard(c.app.POS.GetLedger(cmd.Context()), c.app.Catalog, p)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "Total sales\t%s\n", analytics.FormatCurrency(d.TotalSales))
			fmt.Fprintf(tw, "%s sales\t%s\n", d.Period, analytics.FormatCurrency(d.PeriodSales))
			fmt.Fprintf(tw, "Transactions\t%d\n", d.PeriodTransactions)

			fmt.Fprintln(tw, "\nTREND\tREVENUE")
			for _, pt := range d.Trend {
				fmt.Fprintf(tw, "%s\t%s\n", pt.Label, analytics.FormatCurrency(pt.Revenue))
			}
			fmt.Fprintln(tw, "\nCATEGORY\tREVENUE")
			for _, cs := range d.Categories {
				fmt.Fprintf(tw, "%s\t%s\n", catalog.DisplayCategory(cs.Category), analytics.FormatCurrency(cs.TotalRevenue))
			}
			fmt.Fprintln(tw, "\nTOP SELLERS\tQTY\tREVENUE")
			for _, ps := range d.TopItems {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", ps.ProductName, ps.Quantity, analytics.FormatCurrency(ps.TotalRevenue))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", string(analytics.Daily), "Daily, Weekly or Monthly")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/tradeagent/internal/adapters/storage"
	"github.com/alejandrodnm/tradeagent/internal/domain"
)

// printReport dumps the full trade history as a table in entry order.
func printReport(dsn string) error {
	store, err := storage.NewSQLiteStorage(dsn)
	if err != nil {
		return fmt.Errorf("printReport: open storage: %w", err)
	}
	defer store.Close()

	trades, err := store.AllTrades(context.Background())
	if err != nil {
		return fmt.Errorf("printReport: load trades: %w", err)
	}

	if len(trades) == 0 {
		fmt.Println("no trades recorded")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Market", "Pos", "Amount", "Entry", "Exit", "PnL bps", "Status", "Entered")

	var openCount int
	var totalPnLBps int64
	for _, t := range trades {
		exit := "-"
		pnl := "-"
		if t.Status == domain.TradeStatusClosed {
			exit = fmt.Sprintf("%.4f", t.ExitPrice)
			pnl = fmt.Sprintf("%+d", t.PnLBps)
			totalPnLBps += t.PnLBps
		} else {
			openCount++
		}

		table.Append(
			truncate(t.MarketName, 40),
			string(t.Position),
			fmt.Sprintf("%.4f", t.AmountEth),
			fmt.Sprintf("%.4f", t.EntryPrice),
			exit,
			pnl,
			string(t.Status),
			t.EntryTime.Format("2006-01-02 15:04"),
		)
	}
	table.Render()

	fmt.Printf("\n%d trades, %d open, closed PnL %+d bps\n", len(trades), openCount, totalPnLBps)
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 1
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}

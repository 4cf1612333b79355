package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/tradeagent/internal/domain"
)

const tradeColumns = `id, market_id, market_name, position, amount_eth, amount_usd,
	entry_price, entry_tx_hash, entry_time, exit_price, exit_tx_hash, exit_time,
	pnl_bps, status`

// SaveTrade inserts a freshly opened trade.
func (s *SQLiteStorage) SaveTrade(ctx context.Context, t domain.Trade) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.MarketID, t.MarketName, string(t.Position), t.AmountEth, t.AmountUsd,
		t.EntryPrice, t.EntryTxHash, t.EntryTime.UTC(), t.ExitPrice, t.ExitTxHash,
		nullTime(t.ExitTime), t.PnLBps, string(t.Status),
	)
	if err != nil {
		return fmt.Errorf("storage.SaveTrade: %w", err)
	}
	return nil
}

// CloseTrade writes the exit fields and the CLOSED status in one statement.
// The WHERE clause guards the OPEN → CLOSED transition so a trade can only
// close once.
func (s *SQLiteStorage) CloseTrade(ctx context.Context, id string, exit domain.TradeExit) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trades
		SET exit_price = ?, exit_tx_hash = ?, exit_time = ?, pnl_bps = ?, status = ?
		WHERE id = ? AND status = ?`,
		exit.Price, exit.TxHash, exit.Time.UTC(), exit.PnLBps,
		string(domain.TradeStatusClosed), id, string(domain.TradeStatusOpen),
	)
	if err != nil {
		return fmt.Errorf("storage.CloseTrade: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage.CloseTrade: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage.CloseTrade: trade %s not open", id)
	}
	return nil
}

// OpenTrades returns all open trades, oldest entry first.
func (s *SQLiteStorage) OpenTrades(ctx context.Context) ([]domain.Trade, error) {
	return s.queryTrades(ctx,
		`WHERE status = ? ORDER BY entry_time ASC`,
		string(domain.TradeStatusOpen))
}

// FirstOpenTradeByMarket returns the oldest open trade on the market, or
// nil when there is none.
func (s *SQLiteStorage) FirstOpenTradeByMarket(ctx context.Context, marketID string) (*domain.Trade, error) {
	trades, err := s.queryTrades(ctx,
		`WHERE status = ? AND market_id = ? ORDER BY entry_time ASC LIMIT 1`,
		string(domain.TradeStatusOpen), marketID)
	if err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		return nil, nil
	}
	return &trades[0], nil
}

// ClosedTradesEnteredSince returns closed trades entered at or after the
// given time.
func (s *SQLiteStorage) ClosedTradesEnteredSince(ctx context.Context, since time.Time) ([]domain.Trade, error) {
	return s.queryTrades(ctx,
		`WHERE status = ? AND entry_time >= ? ORDER BY entry_time ASC`,
		string(domain.TradeStatusClosed), since.UTC())
}

// ClosedTradesExitedSince returns trades closed at or after the given time.
func (s *SQLiteStorage) ClosedTradesExitedSince(ctx context.Context, since time.Time) ([]domain.Trade, error) {
	return s.queryTrades(ctx,
		`WHERE status = ? AND exit_time >= ? ORDER BY exit_time ASC`,
		string(domain.TradeStatusClosed), since.UTC())
}

// AllTrades returns every trade, oldest entry first.
func (s *SQLiteStorage) AllTrades(ctx context.Context) ([]domain.Trade, error) {
	return s.queryTrades(ctx, `ORDER BY entry_time ASC`)
}

func (s *SQLiteStorage) queryTrades(ctx context.Context, where string, args ...any) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tradeColumns+` FROM trades `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("storage.queryTrades: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func scanTrade(rows *sql.Rows) (domain.Trade, error) {
	var (
		t        domain.Trade
		position string
		status   string
		exitTime sql.NullTime
	)
	err := rows.Scan(
		&t.ID, &t.MarketID, &t.MarketName, &position, &t.AmountEth, &t.AmountUsd,
		&t.EntryPrice, &t.EntryTxHash, &t.EntryTime, &t.ExitPrice, &t.ExitTxHash,
		&exitTime, &t.PnLBps, &status,
	)
	if err != nil {
		return domain.Trade{}, fmt.Errorf("storage.scanTrade: %w", err)
	}
	t.Position = domain.Position(position)
	t.Status = domain.TradeStatus(status)
	if exitTime.Valid {
		et := exitTime.Time
		t.ExitTime = &et
	}
	return t, nil
}

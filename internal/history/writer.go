// Package history persists resolved line snapshots to Postgres so line
// movement can be replayed later. Writes are buffered and flushed in
// batches on a ticker or when the buffer fills.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/XavierBriggs/courtline/pkg/models"
)

const (
	defaultBatchSize     = 100
	defaultFlushInterval = 5 * time.Second
)

// Snapshot is one resolved line observation
type Snapshot struct {
	PlayerName string
	Market     string
	Bookmaker  string
	Line       float64
	OverPrice  int
	UnderPrice int
	Provenance models.Provenance
	ResolvedAt time.Time
}

// Writer batches snapshot inserts into the line_snapshots table
type Writer struct {
	db *sql.DB

	batchSize     int
	flushInterval time.Duration

	buffer []Snapshot
	mu     sync.Mutex

	flushTicker *time.Ticker
	stopChan    chan struct{}
	wg          sync.WaitGroup
}

// NewWriter creates a new batching snapshot writer
func NewWriter(db *sql.DB) *Writer {
	return &Writer{
		db:            db,
		batchSize:     defaultBatchSize,
		flushInterval: defaultFlushInterval,
		buffer:        make([]Snapshot, 0, defaultBatchSize),
		stopChan:      make(chan struct{}),
	}
}

// Start begins the background flush ticker
func (w *Writer) Start(ctx context.Context) {
	w.flushTicker = time.NewTicker(w.flushInterval)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.flushTicker.C:
				if err := w.Flush(ctx); err != nil {
					log.Printf("[history] flush error: %v", err)
				}
			case <-w.stopChan:
				w.flushTicker.Stop()
				// Final flush on shutdown
				if err := w.Flush(ctx); err != nil {
					log.Printf("[history] final flush error: %v", err)
				}
				return
			case <-ctx.Done():
				w.flushTicker.Stop()
				return
			}
		}
	}()
}

// Stop gracefully shuts down the writer
func (w *Writer) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

// Record converts a resolved line into snapshots (top line plus alternates)
// and buffers them
func (w *Writer) Record(ctx context.Context, market string, resolved *models.ResolvedLine) error {
	if resolved == nil {
		return nil
	}

	snapshots := make([]Snapshot, 0, 1+len(resolved.Alternates))
	snapshots = append(snapshots, Snapshot{
		PlayerName: resolved.Player,
		Market:     market,
		Bookmaker:  resolved.Bookmaker,
		Line:       resolved.Line,
		OverPrice:  resolved.OverPrice,
		UnderPrice: resolved.UnderPrice,
		Provenance: resolved.Provenance,
		ResolvedAt: time.Now().UTC(),
	})
	for _, alt := range resolved.Alternates {
		if alt.Bookmaker == resolved.Bookmaker && alt.Line == resolved.Line {
			continue
		}
		snapshots = append(snapshots, Snapshot{
			PlayerName: resolved.Player,
			Market:     market,
			Bookmaker:  alt.Bookmaker,
			Line:       alt.Line,
			OverPrice:  models.DefaultPrice,
			UnderPrice: models.DefaultPrice,
			Provenance: resolved.Provenance,
			ResolvedAt: time.Now().UTC(),
		})
	}

	return w.Write(ctx, snapshots)
}

// Write adds snapshots to the buffer and flushes if batch size is reached
func (w *Writer) Write(ctx context.Context, snapshots []Snapshot) error {
	w.mu.Lock()
	w.buffer = append(w.buffer, snapshots...)
	shouldFlush := len(w.buffer) >= w.batchSize
	w.mu.Unlock()

	if shouldFlush {
		return w.Flush(ctx)
	}

	return nil
}

// Flush writes buffered snapshots in a single transaction
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	if len(w.buffer) == 0 {
		w.mu.Unlock()
		return nil
	}

	// Swap buffer
	snapshots := w.buffer
	w.buffer = make([]Snapshot, 0, w.batchSize)
	w.mu.Unlock()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := w.insertSnapshots(ctx, tx, snapshots); err != nil {
		return fmt.Errorf("insert snapshots: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// insertSnapshots inserts snapshot rows with a single UNNEST batch insert
func (w *Writer) insertSnapshots(ctx context.Context, tx *sql.Tx, snapshots []Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	query := `
		INSERT INTO line_snapshots (
			player_name, market, bookmaker, line,
			over_price, under_price, provenance, resolved_at
		)
		SELECT * FROM UNNEST(
			$1::text[], $2::text[], $3::text[], $4::decimal[],
			$5::int[], $6::int[], $7::text[], $8::timestamptz[]
		)
	`

	players := make([]string, len(snapshots))
	markets := make([]string, len(snapshots))
	bookmakers := make([]string, len(snapshots))
	lines := make([]float64, len(snapshots))
	overPrices := make([]int, len(snapshots))
	underPrices := make([]int, len(snapshots))
	provenances := make([]string, len(snapshots))
	resolvedAts := make([]time.Time, len(snapshots))

	for i, s := range snapshots {
		players[i] = s.PlayerName
		markets[i] = s.Market
		bookmakers[i] = s.Bookmaker
		lines[i] = s.Line
		overPrices[i] = s.OverPrice
		underPrices[i] = s.UnderPrice
		provenances[i] = string(s.Provenance)
		resolvedAts[i] = s.ResolvedAt
	}

	_, err := tx.ExecContext(ctx, query,
		pq.Array(players), pq.Array(markets), pq.Array(bookmakers), pq.Array(lines),
		pq.Array(overPrices), pq.Array(underPrices), pq.Array(provenances), pq.Array(resolvedAts),
	)

	return err
}

// RecentSnapshots returns the latest snapshots for a player and market,
// newest first
func (w *Writer) RecentSnapshots(ctx context.Context, playerName, market string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT player_name, market, bookmaker, line,
		       over_price, under_price, provenance, resolved_at
		FROM line_snapshots
		WHERE player_name = $1 AND market = $2
		ORDER BY resolved_at DESC
		LIMIT $3
	`

	rows, err := w.db.QueryContext(ctx, query, playerName, market, limit)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var provenance string
		if err := rows.Scan(&s.PlayerName, &s.Market, &s.Bookmaker, &s.Line,
			&s.OverPrice, &s.UnderPrice, &provenance, &s.ResolvedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.Provenance = models.Provenance(provenance)
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

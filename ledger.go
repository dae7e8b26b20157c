package main

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Event types recorded in the ledger
const (
	EvtConnect    = "connect"
	EvtJoin       = "join"
	EvtDisconnect = "disconnect"
	EvtKill       = "player_kill"
	EvtPickup     = "pickup"
)

const (
	ledgerBufSize    = 1024
	ledgerBatchSize  = 50
	ledgerFlushEvery = time.Second
)

// LedgerEvent is one notable thing that happened in the arena
type LedgerEvent struct {
	Type      string
	PlayerID  string
	Name      string
	OtherID   string // victim for kills
	Data      string
	Timestamp time.Time
}

// EventSink receives game events. Track must never block.
type EventSink interface {
	Track(evt LedgerEvent)
}

type nopSink struct{}

func (nopSink) Track(LedgerEvent) {}

// Ledger records game events to SQLite with batched background writes.
// The default database lives in memory and is gone when the process exits.
type Ledger struct {
	conn   *sql.DB
	log    *zap.Logger
	events chan LedgerEvent
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// LeaderboardEntry represents one row in the leaderboard
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"id"`
	Name     string `json:"name"`
	Kills    int    `json:"kills"`
}

// OpenLedger opens (or creates) the ledger database and starts its writer
func OpenLedger(path string, log *zap.Logger) (*Ledger, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if path == "" {
		path = ":memory:"
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// one connection: an in-memory database is per connection
	conn.SetMaxOpenConns(1)

	if path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("enable wal: %w", err)
		}
	}

	l := &Ledger{
		conn:   conn,
		log:    log,
		events: make(chan LedgerEvent, ledgerBufSize),
		stop:   make(chan struct{}),
	}
	if err := l.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	l.wg.Add(1)
	go l.writer()
	return l, nil
}

func (l *Ledger) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		event_type TEXT NOT NULL,
		player_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT '',
		other_id TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_type_player ON events(event_type, player_id);
	`
	if _, err := l.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate ledger: %w", err)
	}
	return nil
}

// Track enqueues an event for async persistence (non-blocking)
func (l *Ledger) Track(evt LedgerEvent) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	select {
	case l.events <- evt:
	default:
		// full: drop rather than block the game loop
	}
}

// Close drains pending events and closes the database
func (l *Ledger) Close() error {
	l.once.Do(func() {
		close(l.stop)
		l.wg.Wait()
	})
	return l.conn.Close()
}

func (l *Ledger) writer() {
	defer l.wg.Done()

	batch := make([]LedgerEvent, 0, ledgerBatchSize)
	ticker := time.NewTicker(ledgerFlushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-l.events:
			batch = append(batch, evt)
			if len(batch) >= ledgerBatchSize {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-l.stop:
			for {
				select {
				case evt := <-l.events:
					batch = append(batch, evt)
				default:
					l.flush(batch)
					return
				}
			}
		}
	}
}

// flush writes a batch of events in one transaction
func (l *Ledger) flush(events []LedgerEvent) {
	if len(events) == 0 {
		return
	}
	tx, err := l.conn.Begin()
	if err != nil {
		l.log.Error("ledger begin tx", zap.Error(err))
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO events (event_type, player_id, name, other_id, data, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		l.log.Error("ledger prepare", zap.Error(err))
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		if _, err := stmt.Exec(evt.Type, evt.PlayerID, evt.Name, evt.OtherID, evt.Data, evt.Timestamp.Format(time.RFC3339Nano)); err != nil {
			l.log.Error("ledger insert", zap.String("type", evt.Type), zap.Error(err))
		}
	}
	if err := tx.Commit(); err != nil {
		l.log.Error("ledger commit", zap.Error(err))
	}
}

// Leaderboard returns the players with the most kills recorded this process lifetime
func (l *Ledger) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	rows, err := l.conn.Query(`
		SELECT player_id, MAX(name), COUNT(*) AS kills
		FROM events
		WHERE event_type = ? AND player_id != ''
		GROUP BY player_id
		ORDER BY kills DESC, MIN(id) ASC
		LIMIT ?`, EvtKill, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	result := make([]LeaderboardEntry, 0, limit)
	rank := 1
	for rows.Next() {
		var e LeaderboardEntry
		if err := rows.Scan(&e.PlayerID, &e.Name, &e.Kills); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		e.Rank = rank
		rank++
		result = append(result, e)
	}
	return result, rows.Err()
}

// EventCounts returns how many events of each type have been recorded
func (l *Ledger) EventCounts() (map[string]int, error) {
	rows, err := l.conn.Query(`SELECT event_type, COUNT(*) FROM events GROUP BY event_type`)
	if err != nil {
		return nil, fmt.Errorf("query event counts: %w", err)
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var evtType string
		var count int
		if err := rows.Scan(&evtType, &count); err != nil {
			return nil, fmt.Errorf("scan event counts: %w", err)
		}
		result[evtType] = count
	}
	return result, rows.Err()
}

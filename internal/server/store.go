package server

import (
	"context"
	"database/sql"
	"time"
)

// storeTimeout bounds every store call so a stalled database cannot pin a
// handler goroutine indefinitely.
const storeTimeout = 5 * time.Second

// ScoreEntry is a single leaderboard row. Rows are immutable once written;
// the only deletion path is the store-side retention trigger (or an operator
// on the service role).
type ScoreEntry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

// HighScore is the name/score pair of the current best entry.
type HighScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Stats summarizes the whole table. AllTimeHigh is nil when no rows exist.
type Stats struct {
	TotalGames  int64      `json:"totalGames"`
	AllTimeHigh *HighScore `json:"allTimeHigh"`
}

// ScoreStore is the persistence boundary for leaderboard rows. Handlers are
// written against this interface so tests can substitute an in-memory fake.
type ScoreStore interface {
	// TopScores returns up to limit entries ordered by score descending.
	// Ties are broken by earliest created_at, then id, so the order is total.
	TopScores(ctx context.Context, limit int) ([]ScoreEntry, error)

	// InsertScore persists a validated, sanitized submission and returns the
	// stored row including its server-assigned id and timestamp. The store's
	// retention trigger prunes lower scores for the same name as part of the
	// same insert.
	InsertScore(ctx context.Context, name string, score int) (ScoreEntry, error)

	// Stats returns the total row count and the current best entry.
	Stats(ctx context.Context) (Stats, error)

	// AllScores returns every row in ranked order, used by snapshot export.
	AllScores(ctx context.Context) ([]ScoreEntry, error)
}

type postgresStore struct {
	db *sql.DB
}

// NewPostgresStore returns a ScoreStore backed by the scores table.
func NewPostgresStore(db *sql.DB) ScoreStore {
	return &postgresStore{db: db}
}

const rankedSelect = `SELECT id, name, score, created_at FROM scores
ORDER BY score DESC, created_at ASC, id ASC`

func (p *postgresStore) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, rankedSelect+` LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (p *postgresStore) InsertScore(ctx context.Context, name string, score int) (ScoreEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var e ScoreEntry
	err := p.db.QueryRowContext(ctx,
		`INSERT INTO scores (name, score) VALUES ($1, $2)
		 RETURNING id, name, score, created_at`,
		name, score,
	).Scan(&e.ID, &e.Name, &e.Score, &e.CreatedAt)
	return e, err
}

func (p *postgresStore) Stats(ctx context.Context) (Stats, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var s Stats
	if err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`).Scan(&s.TotalGames); err != nil {
		return Stats{}, err
	}

	var high HighScore
	err := p.db.QueryRowContext(ctx,
		`SELECT name, score FROM scores
		 ORDER BY score DESC, created_at ASC, id ASC LIMIT 1`,
	).Scan(&high.Name, &high.Score)
	switch {
	case err == sql.ErrNoRows:
		// Empty table: TotalGames is 0 and AllTimeHigh stays nil.
	case err != nil:
		return Stats{}, err
	default:
		s.AllTimeHigh = &high
	}
	return s, nil
}

func (p *postgresStore) AllScores(ctx context.Context) ([]ScoreEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, rankedSelect)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]ScoreEntry, error) {
	entries := make([]ScoreEntry, 0, 20)
	for rows.Next() {
		var e ScoreEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Score, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

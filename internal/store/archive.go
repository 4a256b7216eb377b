package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/DankoOfficial/angrybird/internal/scraper"
)

// Archive keeps a SQLite history of runs and every video they emitted.
// Unlike the dataset file it survives dataset resets and answers "when did
// we first see this uploader" questions the flat file cannot.
type Archive struct {
	db *sql.DB
}

// OpenArchive opens the archive database, creating the schema if needed.
func OpenArchive(path string) (*Archive, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		stopped_at DATETIME,
		outcome TEXT
	);

	CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER REFERENCES runs(id),
		uploader TEXT NOT NULL,
		upload_date TEXT,
		description TEXT,
		likes TEXT,
		comments TEXT,
		favorites TEXT,
		shares TEXT,
		music_text TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_videos_uploader ON videos(uploader);
	CREATE INDEX IF NOT EXISTS idx_videos_run ON videos(run_id);
	`
	_, err := a.db.Exec(schema)
	return err
}

// StartRun records the start of a scrape run and returns its id.
func (a *Archive) StartRun() (int64, error) {
	res, err := a.db.Exec(`INSERT INTO runs (started_at) VALUES (?)`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("start run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun records when and why a run ended ("stopped", "capture timeout", ...).
func (a *Archive) FinishRun(runID int64, outcome string) error {
	_, err := a.db.Exec(`UPDATE runs SET stopped_at = ?, outcome = ? WHERE id = ?`,
		time.Now(), outcome, runID)
	return err
}

// SaveVideos appends emitted records under the given run.
func (a *Archive) SaveVideos(ctx context.Context, runID int64, records []scraper.VideoRecord) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO videos (run_id, uploader, upload_date, description, likes, comments, favorites, shares, music_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.Username, r.UploadDate, r.Description,
			r.Likes, r.Comments, r.Favorites, r.Shares, r.MusicText); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// CountVideos returns the number of archived videos across all runs.
func (a *Archive) CountVideos() (int, error) {
	var n int
	err := a.db.QueryRow(`SELECT COUNT(*) FROM videos`).Scan(&n)
	return n, err
}

// FirstSeen returns the earliest archive timestamp for an uploader, or a
// zero time if the uploader has never been recorded.
func (a *Archive) FirstSeen(uploader string) (time.Time, error) {
	// MIN() strips the column's DATETIME declared type, so the driver returns
	// the raw CURRENT_TIMESTAMP text rather than a time.Time.
	var ts sql.NullString
	err := a.db.QueryRow(`SELECT MIN(created_at) FROM videos WHERE uploader = ?`, uploader).Scan(&ts)
	if err != nil {
		return time.Time{}, err
	}
	if !ts.Valid {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02 15:04:05", ts.String)
}

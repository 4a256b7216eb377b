// Package store persists scraped videos: a tabular CSV dataset consumed by
// the dashboard, plus a SQLite archive of runs for bookkeeping.
package store

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/DankoOfficial/angrybird/internal/scraper"
)

// Columns is the fixed column order of the dataset file.
var Columns = []string{"Uploader", "Upload Date", "Description", "Likes", "Comments", "Favorites", "Shares", "Music Text"}

// Dataset accumulates all records written during a run and mirrors them to a
// CSV file. Every append rewrites the whole file, but through a temp file
// and rename so a crash mid-write can never corrupt rows already on disk.
type Dataset struct {
	mu   sync.Mutex
	path string
	rows []scraper.VideoRecord
}

// OpenDataset opens (or creates) the dataset at path. Rows already on disk
// are loaded so appends extend the file instead of truncating history.
func OpenDataset(path string) (*Dataset, error) {
	d := &Dataset{path: path}

	rows, err := readRows(path)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	d.rows = rows
	return d, nil
}

// Path returns the backing file path.
func (d *Dataset) Path() string {
	return d.path
}

// Len returns the number of accumulated rows.
func (d *Dataset) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.rows)
}

// Identities returns every uploader currently in the dataset, used to seed
// the dedup tracker across restarts.
func (d *Dataset) Identities() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]string, 0, len(d.rows))
	for _, r := range d.rows {
		ids = append(ids, r.Username)
	}
	return ids
}

// Append adds records to the accumulated table and rewrites the backing
// file. Previously written rows are never lost: the new file is complete
// before it replaces the old one.
func (d *Dataset) Append(ctx context.Context, records []scraper.VideoRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.rows = append(d.rows, records...)
	return d.flushLocked()
}

// flushLocked writes the full table to a temp file and renames it over the
// dataset path. Caller holds d.mu.
func (d *Dataset) flushLocked() error {
	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp dataset: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(Columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range d.rows {
		row := []string{r.Username, r.UploadDate, r.Description, r.Likes, r.Comments, r.Favorites, r.Shares, r.MusicText}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush dataset: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close dataset: %w", err)
	}

	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("replace dataset: %w", err)
	}
	return nil
}

// readRows parses the raw records back out of a dataset file.
func readRows(path string) ([]scraper.VideoRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(Columns)

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}

	rows := make([]scraper.VideoRecord, 0, len(all)-1)
	for _, rec := range all[1:] { // skip header
		rows = append(rows, scraper.VideoRecord{
			Username:    rec[0],
			UploadDate:  rec[1],
			Description: rec[2],
			Likes:       rec[3],
			Comments:    rec[4],
			Favorites:   rec[5],
			Shares:      rec[6],
			MusicText:   rec[7],
		})
	}
	return rows, nil
}

// Import a JSON booking dump (the website's exported backup list) into
// the sqlite store. One-off migration tool.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"mobilvask/internal/models"
	"mobilvask/internal/store"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		inPath = flag.String("in", "bookings.json", "path to the JSON booking dump")
		dbPath = flag.String("db", "./data/bookings.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*inPath)
	if err != nil {
		return fmt.Errorf("read dump: %w", err)
	}
	var records []models.BookingRecord
	if err = json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse dump: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records in dump")
	}

	db, err := store.NewSQLiteStore(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	imported := 0
	skipped := 0
	for _, r := range records {
		if r.Reference == "" {
			skipped++
			continue
		}
		// Dumps from the old website carry no attempt id.
		if r.AttemptID == "" {
			r.AttemptID = uuid.NewString()
		}
		if r.Status == "" {
			r.Status = models.StatusPending
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		if err = db.Append(ctx, r); err != nil {
			return fmt.Errorf("append %s: %w", r.Reference, err)
		}
		imported++
	}

	fmt.Printf("done: imported=%d skipped=%d\n", imported, skipped)
	return nil
}

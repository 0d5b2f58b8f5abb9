// Export writes the local booking log to an Excel file for manual
// recovery when the notification channel has been unreliable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"mobilvask/internal/config"
	"mobilvask/internal/logging"
	"mobilvask/internal/models"
	"mobilvask/internal/store"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

type recordLister interface {
	List(ctx context.Context) ([]models.BookingRecord, error)
}

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	outDir := flag.String("out", "exports", "output directory")
	flag.Parse()

	if err := run(*configPath, *outDir); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(configPath, outDir string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer closer.Close()
	}
	logger := baseLogger.With().Str("component", "export").Logger()

	lister, err := openStore(cfg, &logger)
	if err != nil {
		return err
	}

	records, err := lister.List(context.Background())
	if err != nil {
		return fmt.Errorf("read booking log: %w", err)
	}

	path, err := exportToExcel(records, outDir)
	if err != nil {
		return err
	}

	logger.Info().Str("file_path", path).Int("records", len(records)).Msg("Excel file created")
	return nil
}

func openStore(cfg *config.Config, logger *zerolog.Logger) (recordLister, error) {
	if cfg.Storage.Backend == "sqlite" {
		return store.NewSQLiteStore(cfg.Storage.Path, logger)
	}
	return store.NewFileStore(cfg.Storage.Path, cfg.Storage.Key, logger)
}

// exportToExcel создает Excel файл с данными о заявках
func exportToExcel(records []models.BookingRecord, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookinger"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Reference", "Status", "Dato", "Navn", "E-mail", "Telefon", "Service", "Besked", "Fejl"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for row, r := range records {
		values := []interface{}{
			r.Reference,
			r.Status,
			r.CreatedAt.Format("02.01.2006 15:04"),
			r.Name,
			r.Email,
			r.Phone,
			r.Service,
			r.Message,
			r.Error,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 20)
	_ = f.SetColWidth(sheetName, "C", "G", 18)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	filePath := filepath.Join(outDir, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	return filePath, nil
}

package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/ArowuTest/bridgetunes-raffle/internal/repositories"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Compile-time check to ensure AuditRepository implements repositories.AuditRepository
var _ repositories.AuditRepository = (*AuditRepository)(nil)

// TimestampLayout is the timestamp format of every audit row
const TimestampLayout = "2006-01-02 15:04:05"

// UnknownFilename is logged when a draw happens without a known roster file
const UnknownFilename = "unknown.xlsx"

var (
	drawLogHeader   = []string{"시각", "엑셀파일", "면허번호", "이름", "소속기관", "경품"}
	deleteLogHeader = []string{"삭제시각", "면허번호", "이름", "소속기관", "경품"}
)

// AuditRepository appends draw and deletion rows to two CSV files.
// New files start with a UTF-8 BOM and a header row so spreadsheet tools
// open them with the right encoding; existing files are only appended to.
type AuditRepository struct {
	drawPath   string
	deletePath string
	mu         sync.Mutex
}

// NewAuditRepository creates an AuditRepository
func NewAuditRepository(drawPath, deletePath string) *AuditRepository {
	return &AuditRepository{drawPath: drawPath, deletePath: deletePath}
}

// RecordDraw appends one row per drawn winner
func (r *AuditRepository) RecordDraw(_ context.Context, entries []models.DrawLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		filename := e.Filename
		if filename == "" {
			filename = UnknownFilename
		}
		rows = append(rows, []string{
			e.Timestamp.Format(TimestampLayout),
			filename,
			e.Winner.LicenseNumber,
			e.Winner.Name,
			e.Winner.Affiliation,
			e.Winner.Gift,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := appendRows(r.drawPath, drawLogHeader, rows); err != nil {
		return fmt.Errorf("failed to append draw log: %w", err)
	}
	return nil
}

// RecordDeletion appends the row of a removed winner
func (r *AuditRepository) RecordDeletion(_ context.Context, entry models.DeleteLogEntry) error {
	row := []string{
		entry.Timestamp.Format(TimestampLayout),
		entry.Winner.LicenseNumber,
		entry.Winner.Name,
		entry.Winner.Affiliation,
		entry.Winner.Gift,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := appendRows(r.deletePath, deleteLogHeader, [][]string{row}); err != nil {
		return fmt.Errorf("failed to append delete log: %w", err)
	}
	return nil
}

// appendRows encodes the whole batch first and appends it with one write,
// so an encoding failure leaves the file untouched.
func appendRows(path string, header []string, rows [][]string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	data, err := encodeRows(header, rows, info.Size() == 0)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}

// encodeRows renders rows as CSV. A fresh file gets a UTF-8 BOM and the header row.
func encodeRows(header []string, rows [][]string, fresh bool) ([]byte, error) {
	var buf bytes.Buffer
	var w io.Writer = &buf
	var bom *transform.Writer
	if fresh {
		bom = transform.NewWriter(&buf, unicode.UTF8BOM.NewEncoder())
		w = bom
	}

	cw := csv.NewWriter(w)
	if fresh {
		if err := cw.Write(header); err != nil {
			return nil, err
		}
	}
	if err := cw.WriteAll(rows); err != nil {
		return nil, err
	}
	if bom != nil {
		if err := bom.Close(); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

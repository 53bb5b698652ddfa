package utils

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Import errors reported to the operator
var (
	ErrMissingFile  = errors.New("no roster file provided")
	ErrBadExtension = errors.New("file extension is not allowed")
	ErrBadMimeType  = errors.New("file content does not match its extension")
	ErrFileTooLarge = errors.New("roster file is too large")
)

// MissingColumnsError lists the required columns absent from the header row
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("roster is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseError wraps a failure to read the spreadsheet itself
type ParseError struct {
	Filename string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse roster %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Column names accepted for each required field, matched case-insensitively
var (
	licenseColumns     = []string{"면허번호", "license_number", "license", "identifier", "id"}
	nameColumns        = []string{"이름", "name"}
	affiliationColumns = []string{"소속기관", "affiliation", "organization"}
)

// Accepted sniffed types per extension; parents of the detected type are also checked
var allowedMimeTypes = map[string][]string{
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "application/zip"},
	"csv":  {"text/csv", "text/plain"},
}

var spreadsheetFloatID = regexp.MustCompile(`^[0-9]+\.0$`)

// RosterResult holds the parsed participants and row statistics
type RosterResult struct {
	Participants []models.Participant
	TotalRows    int
	Dropped      int
}

// RosterImporter parses uploaded participant spreadsheets
type RosterImporter struct {
	AllowedExtensions []string
	MaxBytes          int64
}

// NewRosterImporter creates a RosterImporter
func NewRosterImporter(allowedExtensions []string, maxBytes int64) *RosterImporter {
	exts := make([]string, 0, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			exts = append(exts, ext)
		}
	}
	return &RosterImporter{AllowedExtensions: exts, MaxBytes: maxBytes}
}

// Extension returns the lower-cased extension of filename without the dot
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Parse reads a roster from r. The extension of filename selects the format.
func (i *RosterImporter) Parse(filename string, r io.Reader) (*RosterResult, error) {
	if r == nil || filename == "" {
		return nil, ErrMissingFile
	}
	ext := Extension(filename)
	if !i.extensionAllowed(ext) {
		return nil, fmt.Errorf("%w: %q", ErrBadExtension, filepath.Ext(filename))
	}

	data, err := i.readLimited(r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &ParseError{Filename: filename, Err: errors.New("file is empty")}
	}
	if !mimeMatches(ext, mimetype.Detect(data)) {
		return nil, ErrBadMimeType
	}

	var rows [][]string
	switch ext {
	case "xlsx":
		rows, err = readXLSX(data)
	case "csv":
		rows, err = readCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrBadExtension, filepath.Ext(filename))
	}
	if err != nil {
		return nil, &ParseError{Filename: filename, Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Filename: filename, Err: errors.New("no header row")}
	}

	return buildRoster(rows)
}

func (i *RosterImporter) extensionAllowed(ext string) bool {
	if ext == "" {
		return false
	}
	for _, allowed := range i.AllowedExtensions {
		if allowed == ext {
			_, known := allowedMimeTypes[ext]
			return known
		}
	}
	return false
}

func (i *RosterImporter) readLimited(r io.Reader) ([]byte, error) {
	if i.MaxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, i.MaxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > i.MaxBytes {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func mimeMatches(ext string, detected *mimetype.MIME) bool {
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range allowedMimeTypes[ext] {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func readCSV(data []byte) ([][]string, error) {
	// BOMOverride drops a leading UTF-8 BOM written by spreadsheet exports
	decoded := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func buildRoster(rows [][]string) (*RosterResult, error) {
	header := rows[0]
	licenseIdx := findColumnIndex(header, licenseColumns)
	nameIdx := findColumnIndex(header, nameColumns)
	affiliationIdx := findColumnIndex(header, affiliationColumns)

	var missing []string
	if licenseIdx == -1 {
		missing = append(missing, licenseColumns[0])
	}
	if nameIdx == -1 {
		missing = append(missing, nameColumns[0])
	}
	if affiliationIdx == -1 {
		missing = append(missing, affiliationColumns[0])
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	result := &RosterResult{Participants: make([]models.Participant, 0, len(rows)-1)}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		result.TotalRows++

		p := models.Participant{
			LicenseNumber: NormalizeLicenseNumber(cell(row, licenseIdx)),
			Name:          NormalizeText(cell(row, nameIdx)),
			Affiliation:   NormalizeText(cell(row, affiliationIdx)),
		}
		if !p.Valid() {
			result.Dropped++
			continue
		}
		result.Participants = append(result.Participants, p)
	}
	return result, nil
}

// findColumnIndex returns the index of the first header cell matching any alias, or -1
func findColumnIndex(header []string, aliases []string) int {
	for idx, col := range header {
		col = strings.ToLower(NormalizeText(strings.TrimPrefix(col, "\ufeff")))
		for _, alias := range aliases {
			if col == strings.ToLower(alias) {
				return idx
			}
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// NormalizeText trims surrounding whitespace
func NormalizeText(v string) string {
	return strings.TrimSpace(v)
}

// NormalizeLicenseNumber trims the value and strips the ".0" suffix spreadsheets
// add when a numeric identifier is stored as a float.
func NormalizeLicenseNumber(v string) string {
	v = NormalizeText(v)
	if spreadsheetFloatID.MatchString(v) {
		return strings.TrimSuffix(v, ".0")
	}
	return v
}

// NormalizeParticipant applies roster normalization to a record received outside an upload
func NormalizeParticipant(p models.Participant) models.Participant {
	return models.Participant{
		LicenseNumber: NormalizeLicenseNumber(p.LicenseNumber),
		Name:          NormalizeText(p.Name),
		Affiliation:   NormalizeText(p.Affiliation),
	}
}

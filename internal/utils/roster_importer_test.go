package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ArowuTest/bridgetunes-raffle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestImporter() *RosterImporter {
	return NewRosterImporter([]string{"xlsx", ".CSV"}, 1<<20)
}

func buildXLSX(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, axis, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParse_XLSXRoundTrip(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"면허번호", "이름", "소속기관"},
		{"L1", "Alice", "Org1"},
		{"L2", "Bob", ""},
	})

	res, err := newTestImporter().Parse("roster.xlsx", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []models.Participant{
		{LicenseNumber: "L1", Name: "Alice", Affiliation: "Org1"},
		{LicenseNumber: "L2", Name: "Bob", Affiliation: ""},
	}, res.Participants)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 0, res.Dropped)
}

func TestParse_XLSXNumericLicense(t *testing.T) {
	data := buildXLSX(t, [][]interface{}{
		{"면허번호", "이름", "소속기관"},
		{12345, "Alice", "Org1"},
	})

	res, err := newTestImporter().Parse("roster.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, res.Participants, 1)
	assert.Equal(t, "12345", res.Participants[0].LicenseNumber)
}

func TestParse_CSVNormalizesAndDrops(t *testing.T) {
	csvData := "\ufeff면허번호,이름,소속기관\n" +
		"12345.0, Alice ,Org1\n" +
		"A-1.0,Bob,\n" +
		",NoLicense,Org2\n" +
		"L3,,Org3\n" +
		"\n" +
		"L4," + strings.Repeat("x", 65) + ",Org4\n"

	res, err := newTestImporter().Parse("roster.csv", strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, []models.Participant{
		{LicenseNumber: "12345", Name: "Alice", Affiliation: "Org1"},
		{LicenseNumber: "A-1.0", Name: "Bob", Affiliation: ""},
	}, res.Participants)
	assert.Equal(t, 5, res.TotalRows)
	assert.Equal(t, 3, res.Dropped)
}

func TestParse_EnglishHeaderAliases(t *testing.T) {
	csvData := "Name,Affiliation,License_Number\nAlice,Org1,L1\n"

	res, err := newTestImporter().Parse("roster.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, []models.Participant{{LicenseNumber: "L1", Name: "Alice", Affiliation: "Org1"}}, res.Participants)
}

func TestParse_Errors(t *testing.T) {
	imp := newTestImporter()

	t.Run("missing file", func(t *testing.T) {
		_, err := imp.Parse("", nil)
		assert.ErrorIs(t, err, ErrMissingFile)
	})

	t.Run("bad extension", func(t *testing.T) {
		_, err := imp.Parse("roster.xls", strings.NewReader("whatever"))
		assert.ErrorIs(t, err, ErrBadExtension)
	})

	t.Run("no extension", func(t *testing.T) {
		_, err := imp.Parse("roster", strings.NewReader("whatever"))
		assert.ErrorIs(t, err, ErrBadExtension)
	})

	t.Run("bad mimetype", func(t *testing.T) {
		_, err := imp.Parse("roster.xlsx", strings.NewReader("면허번호,이름,소속기관\nL1,Alice,Org1\n"))
		assert.ErrorIs(t, err, ErrBadMimeType)
	})

	t.Run("missing columns", func(t *testing.T) {
		_, err := imp.Parse("roster.csv", strings.NewReader("면허번호,이름\nL1,Alice\n"))
		var missing *MissingColumnsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{"소속기관"}, missing.Missing)
	})

	t.Run("parse error", func(t *testing.T) {
		_, err := imp.Parse("roster.csv", strings.NewReader("면허번호,이름,소속기관\n\"L1,Alice,Org1\n"))
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "roster.csv", parseErr.Filename)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := imp.Parse("roster.csv", strings.NewReader(""))
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("too large", func(t *testing.T) {
		small := NewRosterImporter([]string{"csv"}, 8)
		_, err := small.Parse("roster.csv", strings.NewReader("면허번호,이름,소속기관\n"))
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}

func TestNormalizeLicenseNumber(t *testing.T) {
	tests := map[string]string{
		" 123.0 ": "123",
		"123":     "123",
		"123.5":   "123.5",
		"12.0.0":  "12.0.0",
		"AB12.0":  "AB12.0",
		"":        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeLicenseNumber(in), "input %q", in)
	}
}

package render

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yumyai/ppp-onestep/logger"
	"github.com/yumyai/ppp-onestep/pkg/model"
)

const TableFileName = "ppp-onestep_output.tsv"

// Columns is the fixed header of the summary table.
var Columns = []string{
	"Sequence",
	"Molecular Weight",
	"Residues",
	"Average Residue Weight",
	"Charge",
	"Isoelectric Point",
	"Hydrophobicity Scores",
}

// TableWriter writes the tab separated summary table. The header is written
// by CreateTable; each AppendRow reopens the file and appends one line, so a
// run that dies midway leaves every finished row on disk.
type TableWriter struct {
	Path string
	rows int
}

// CreateTable truncates path and writes the header row.
func CreateTable(path string) (*TableWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	defer f.Close()

	if err := writeRecord(f, Columns); err != nil {
		return nil, fmt.Errorf("failed to write table header: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	return &TableWriter{Path: path}, nil
}

// AppendRow appends one row to the table.
func (tw *TableWriter) AppendRow(row model.OutputRow) error {
	f, err := os.OpenFile(tw.Path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open table: %w", err)
	}
	defer f.Close()

	if err := writeRecord(f, rowFields(row)); err != nil {
		return fmt.Errorf("failed to write row %s: %w", row.Sequence, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	tw.rows++
	logger.Debug("Row written", zap.String("sequence", row.Sequence), zap.Int("row", tw.rows))
	return nil
}

// Rows is the number of data rows appended so far.
func (tw *TableWriter) Rows() int {
	return tw.rows
}

func writeRecord(f *os.File, record []string) error {
	w := csv.NewWriter(f)
	w.Comma = '\t'
	if err := w.Write(record); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func rowFields(row model.OutputRow) []string {
	return []string{
		row.Sequence,
		measureText(row.MolecularWeight),
		strconv.Itoa(row.Residues),
		measureText(row.AverageResidueWeight),
		measureText(row.Charge),
		measureText(row.IsoelectricPoint),
		FormatFloat(row.Hydrophobicity),
	}
}

// measureText repeats the value as the report printed it.
func measureText(m model.Measure) string {
	if m.Text != "" {
		return m.Text
	}
	return FormatFloat(m.Value)
}

// FormatFloat prints a computed value as the shortest decimal that round-trips to v, keeping a
// decimal point on whole numbers ("-2.0", "1.8", "-0.4800000000000001").
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

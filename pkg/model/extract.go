package model

import (
	"fmt"
	"io"
)

// Hydrophobicity is the count-weighted sum of Kyte-Doolittle coefficients over
// the 20 standard residues, divided by the residue total from the block header.
// Non-standard rows (B, J, O, U, X, Z) contribute nothing.
func (r *ReportRecord) Hydrophobicity() (float64, error) {
	if r.Residues == 0 {
		return 0, fmt.Errorf("%w: sequence %s", ErrZeroResidues, r.Sequence)
	}

	var sum float64
	for _, code := range standardResidues {
		sum += kyteDoolittle[code] * float64(r.Count(code))
	}

	return sum / float64(r.Residues), nil
}

// Row converts a record into its table row.
func (r *ReportRecord) Row() (OutputRow, error) {
	score, err := r.Hydrophobicity()
	if err != nil {
		return OutputRow{}, err
	}

	return OutputRow{
		Sequence:             r.Sequence,
		MolecularWeight:      r.MolecularWeight,
		Residues:             r.Residues,
		AverageResidueWeight: r.AverageResidueWeight,
		Charge:               r.Charge,
		IsoelectricPoint:     r.IsoelectricPoint,
		Hydrophobicity:       score,
	}, nil
}

// ExtractReport parses the report block by block and passes each row to emit
// before reading the next block. It returns how many rows were emitted, also
// when it stops on an error.
func ExtractReport(r io.Reader, emit func(OutputRow) error) (int, error) {
	n := 0
	err := ScanReport(r, func(rec ReportRecord) error {
		row, err := rec.Row()
		if err != nil {
			return err
		}
		if err := emit(row); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

// Parser for the text report written by EMBOSS pepstats.

package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrNoRecords       = errors.New("no sequence blocks found in report")
	ErrIncompleteBlock = errors.New("incomplete sequence block")
	ErrZeroResidues    = errors.New("sequence block reports zero residues")
)

// ParseError reports a line of a sequence block that could not be read.
type ParseError struct {
	Line     int
	Sequence string
	Field    string
	Value    string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("report line %d: sequence %s: bad %s %q: %v", e.Line, e.Sequence, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// PEPSTATS of SEQ1 from 1 to 120
var blockStartRegex = regexp.MustCompile(`^PEPSTATS of (\S+) from (\S+) to (\S+)`)

// Residue		Number		Mole%		DayhoffStat
var compositionStartRegex = regexp.MustCompile(`^Residue\s+Number\s+Mole%\s+DayhoffStat`)

// A = Ala		10		8.333		0.968
var compositionRowRegex = regexp.MustCompile(`^([A-Z])\s*=\s*(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s*$`)

const (
	fieldMolecularWeight = "molecular weight"
	fieldResidues        = "residues"
	fieldAverageWeight   = "average residue weight"
	fieldCharge          = "charge"
	fieldIsoelectric     = "isoelectric point"
	fieldMolarExtinction = "A280 molar extinction coefficients"
	fieldMgMlExtinction  = "A280 extinction coefficients 1mg/ml"
	fieldInclusionBodies = "inclusion bodies"
)

// Fields without which a block cannot produce an output row.
var requiredFields = []string{
	fieldMolecularWeight,
	fieldResidues,
	fieldAverageWeight,
	fieldCharge,
	fieldIsoelectric,
}

type headerField struct {
	name  string
	regex *regexp.Regexp
	set   func(b *blockBuilder, m []string) error
}

// A header line may carry more than one field ("Molecular weight = ... Residues = ..."),
// so every pattern is tried on every line.
var headerFields = []headerField{
	{
		name:  fieldMolecularWeight,
		regex: regexp.MustCompile(`Molecular weight\s*=\s*(\S+)`),
		set: func(b *blockBuilder, m []string) (err error) {
			b.rec.MolecularWeight, err = b.parseMeasure(fieldMolecularWeight, m[1])
			return
		},
	},
	{
		name:  fieldResidues,
		regex: regexp.MustCompile(`\bResidues\s*=\s*(\S+)`),
		set: func(b *blockBuilder, m []string) (err error) {
			b.rec.Residues, err = b.parseInt(fieldResidues, m[1])
			return
		},
	},
	{
		name:  fieldAverageWeight,
		regex: regexp.MustCompile(`Average Residue Weight\s*=\s*(\S+)`),
		set: func(b *blockBuilder, m []string) (err error) {
			b.rec.AverageResidueWeight, err = b.parseMeasure(fieldAverageWeight, m[1])
			return
		},
	},
	{
		name:  fieldCharge,
		regex: regexp.MustCompile(`Charge\s*=\s*(\S+)`),
		set: func(b *blockBuilder, m []string) (err error) {
			b.rec.Charge, err = b.parseMeasure(fieldCharge, m[1])
			return
		},
	},
	{
		name:  fieldIsoelectric,
		regex: regexp.MustCompile(`Isoelectric Point\s*=\s*(\S+)`),
		set: func(b *blockBuilder, m []string) (err error) {
			b.rec.IsoelectricPoint, err = b.parseMeasure(fieldIsoelectric, m[1])
			return
		},
	},
	{
		name:  fieldMolarExtinction,
		regex: regexp.MustCompile(`A280 Molar Extinction Coefficients\s*=\s*(\S+)\s+\(reduced\)\s+(\S+)\s+\(cystine bridges\)`),
		set: func(b *blockBuilder, m []string) (err error) {
			b.rec.MolarExtinction, err = b.extinction(fieldMolarExtinction, m[1], m[2])
			return
		},
	},
	{
		name:  fieldMgMlExtinction,
		regex: regexp.MustCompile(`A280 Extinction Coefficients 1mg/ml\s*=\s*(\S+)\s+\(reduced\)\s+(\S+)\s+\(cystine bridges\)`),
		set: func(b *blockBuilder, m []string) (err error) {
			b.rec.MgMlExtinction, err = b.extinction(fieldMgMlExtinction, m[1], m[2])
			return
		},
	},
	{
		name:  fieldInclusionBodies,
		regex: regexp.MustCompile(`(Improbability|Probability) of expression in inclusion bodies\s*=\s*(\S+)`),
		set: func(b *blockBuilder, m []string) error {
			v, err := b.parseFloat(fieldInclusionBodies, m[2])
			if err != nil {
				return err
			}
			b.rec.InclusionBodies = &InclusionBodies{Value: v, Improbability: m[1] == "Improbability"}
			return nil
		},
	},
}

type parseState int

const (
	stateOutside parseState = iota
	stateHeader
	stateComposition
)

// blockBuilder collects one block while the report is scanned.
type blockBuilder struct {
	rec  ReportRecord
	seen map[string]bool
	line int // current line, for errors
}

func newBlockBuilder(m []string, line int) (*blockBuilder, error) {
	b := &blockBuilder{
		rec: ReportRecord{
			Sequence:    m[1],
			Composition: make(map[string]Residue),
			Line:        line,
		},
		seen: make(map[string]bool),
		line: line,
	}

	var err error
	if b.rec.Start, err = b.parseInt("start position", m[2]); err != nil {
		return nil, err
	}
	if b.rec.End, err = b.parseInt("end position", m[3]); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *blockBuilder) parseErr(field, value string, err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	return &ParseError{Line: b.line, Sequence: b.rec.Sequence, Field: field, Value: value, Err: err}
}

func (b *blockBuilder) parseFloat(field, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, b.parseErr(field, value, err)
	}
	return v, nil
}

func (b *blockBuilder) parseMeasure(field, value string) (Measure, error) {
	v, err := b.parseFloat(field, value)
	if err != nil {
		return Measure{}, err
	}
	return Measure{Value: v, Text: value}, nil
}

func (b *blockBuilder) parseInt(field, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, b.parseErr(field, value, err)
	}
	return v, nil
}

func (b *blockBuilder) extinction(field, reduced, cystine string) (*ExtinctionCoefficients, error) {
	r, err := b.parseFloat(field, reduced)
	if err != nil {
		return nil, err
	}
	c, err := b.parseFloat(field, cystine)
	if err != nil {
		return nil, err
	}
	return &ExtinctionCoefficients{Reduced: r, CystineBridges: c}, nil
}

func (b *blockBuilder) headerLine(line string) error {
	for _, f := range headerFields {
		m := f.regex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if err := f.set(b, m); err != nil {
			return err
		}
		b.seen[f.name] = true
	}
	return nil
}

func (b *blockBuilder) compositionRow(m []string) error {
	code := m[1]
	if _, dup := b.rec.Composition[code]; dup {
		return &ParseError{Line: b.line, Sequence: b.rec.Sequence, Field: "residue " + code, Value: m[0], Err: errors.New("duplicate row")}
	}

	count, err := b.parseInt("residue "+code+" number", m[3])
	if err != nil {
		return err
	}
	mole, err := b.parseFloat("residue "+code+" mole%", m[4])
	if err != nil {
		return err
	}
	dayhoff, err := b.parseFloat("residue "+code+" DayhoffStat", m[5])
	if err != nil {
		return err
	}

	b.rec.Composition[code] = Residue{
		Code:        code,
		Name:        m[2],
		Count:       count,
		MolePercent: mole,
		DayhoffStat: dayhoff,
	}
	return nil
}

// finish checks that the block has every required field and all 20 standard residue rows.
func (b *blockBuilder) finish() (ReportRecord, error) {
	var missing []string
	for _, f := range requiredFields {
		if !b.seen[f] {
			missing = append(missing, f)
		}
	}

	var absent []string
	for _, code := range standardResidues {
		if _, ok := b.rec.Composition[code]; !ok {
			absent = append(absent, code)
		}
	}
	if len(absent) > 0 {
		sort.Strings(absent)
		missing = append(missing, "residue rows "+strings.Join(absent, ","))
	}

	if len(missing) > 0 {
		return ReportRecord{}, fmt.Errorf("%w: sequence %s (line %d): missing %s",
			ErrIncompleteBlock, b.rec.Sequence, b.rec.Line, strings.Join(missing, "; "))
	}
	return b.rec, nil
}

// ParseReport reads a pepstats report and returns one record per sequence block,
// in the order the blocks appear. A report without blocks yields an empty slice
// and no error.
func ParseReport(r io.Reader) ([]ReportRecord, error) {
	var records []ReportRecord
	err := ScanReport(r, func(rec ReportRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ScanReport reads a pepstats report and calls fn for each sequence block as
// soon as the block is complete, in report order. Composition rows are matched
// by their one-letter code, so row order and column spacing do not matter.
// Text outside blocks is skipped. Scanning stops at the first error, from the
// report or from fn; blocks handed to fn before that stay handed.
func ScanReport(r io.Reader, fn func(ReportRecord) error) error {

	reader := bufio.NewReader(r)

	var (
		current *blockBuilder
		state   = stateOutside
		lineNo  = 0
	)

	closeBlock := func() error {
		rec, err := current.finish()
		if err != nil {
			return err
		}
		current = nil
		state = stateOutside
		return fn(rec)
	}

	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		if line == "" && err == io.EOF {
			break
		}
		lineNo++
		line = strings.TrimRight(line, "\r\n")
		trimmed := strings.TrimSpace(line)

		if m := blockStartRegex.FindStringSubmatch(trimmed); m != nil {
			if current != nil {
				if cerr := closeBlock(); cerr != nil {
					return cerr
				}
			}
			b, berr := newBlockBuilder(m, lineNo)
			if berr != nil {
				return berr
			}
			current = b
			state = stateHeader
		} else if current != nil {
			current.line = lineNo

			switch state {
			case stateHeader:
				if compositionStartRegex.MatchString(trimmed) {
					state = stateComposition
				} else if herr := current.headerLine(trimmed); herr != nil {
					return herr
				}

			case stateComposition:
				if m := compositionRowRegex.FindStringSubmatch(trimmed); m != nil {
					if rerr := current.compositionRow(m); rerr != nil {
						return rerr
					}
				} else if trimmed != "" || len(current.rec.Composition) > 0 {
					// first line that is not a row ends the table
					if cerr := closeBlock(); cerr != nil {
						return cerr
					}
				}
			}
		}

		if err == io.EOF {
			break
		}
	}

	if current != nil {
		return closeBlock()
	}

	return nil
}

// Package fasta holds the small FASTA reader used to check the sequences
// handed to the external statistics tool.
package fasta

import (
	"bufio"
	"io"
	"strings"
)

// Record represents a single FASTA record (header and sequence).
type Record struct {
	Header   string
	Sequence string
}

// ID is the first whitespace separated word of the header, which is what
// the statistics tool reports as the sequence name.
func (r Record) ID() string {
	fields := strings.Fields(r.Header)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Parse reads FASTA records from r. Lines beginning with '>' start a record,
// sequence lines are concatenated, blank lines are skipped.
func Parse(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []Record
	var current *Record
	var seq strings.Builder

	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			records = append(records, *current)
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			current = &Record{Header: strings.TrimSpace(line[1:])}
			continue
		}
		if current == nil {
			// sequence data before any header is not FASTA; ignore it
			continue
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return records, nil
}

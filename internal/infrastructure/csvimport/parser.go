// Package csvimport decodes catalog batches supplied as CSV instead of JSON.
// Header names are the JSON field names of the records (keyProductID,
// barcode, price, ...), matched case-insensitively.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// utf8BOM is stripped from the start of the body when present
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// encodingProbeSize is how much of the body is checked for valid UTF-8
const encodingProbeSize = 4096

// Record is one data row keyed by header name
type Record struct {
	Line   int
	Fields map[string]string
}

// Parser reads header-keyed records from a CSV stream
type Parser struct {
	reader  *csv.Reader
	headers []string
	line    int
}

// Option configures a Parser
type Option func(*csv.Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) Option {
	return func(r *csv.Reader) {
		r.Comma = d
	}
}

// NewParser strips a UTF-8 BOM, checks the encoding and reads the header row.
func NewParser(r io.Reader, opts ...Option) (*Parser, error) {
	buf := bufio.NewReader(r)

	if head, err := buf.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		_, _ = buf.Discard(len(utf8BOM))
	}

	probe, err := buf.Peek(encodingProbeSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read CSV body: %w", err)
	}
	if len(probe) == 0 {
		return nil, ErrEmptyFile
	}
	if !validPrefix(probe) {
		return nil, ErrInvalidEncoding
	}

	reader := csv.NewReader(buf)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(reader)
	}

	p := &Parser{reader: reader}
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

// validPrefix accepts a probe that only fails UTF-8 validation because it
// was cut in the middle of a multi-byte rune.
func validPrefix(b []byte) bool {
	if utf8.Valid(b) {
		return true
	}
	for cut := 1; cut < utf8.UTFMax && cut < len(b); cut++ {
		if utf8.Valid(b[:len(b)-cut]) {
			return !utf8.FullRune(b[len(b)-cut:])
		}
	}
	return false
}

func (p *Parser) readHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	p.line = 1

	p.headers = make([]string, len(record))
	empty := true
	for i, h := range record {
		p.headers[i] = strings.TrimSpace(h)
		if p.headers[i] != "" {
			empty = false
		}
	}
	if empty {
		return ErrMissingHeader
	}
	return nil
}

// Headers returns the header row as read
func (p *Parser) Headers() []string {
	return p.headers
}

// Require reports the columns in required that the header lacks, compared
// case-insensitively.
func (p *Parser) Require(required ...string) error {
	present := make(map[string]bool, len(p.headers))
	for _, h := range p.headers {
		present[strings.ToLower(h)] = true
	}
	var missing []string
	for _, col := range required {
		if !present[strings.ToLower(col)] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// Next returns the next non-blank record, or io.EOF
func (p *Parser) Next() (*Record, error) {
	for {
		fields, err := p.reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		p.line++
		if err != nil {
			return nil, &RowError{Line: p.line, Err: err}
		}

		rec := &Record{Line: p.line, Fields: make(map[string]string, len(p.headers))}
		blank := true
		for i, h := range p.headers {
			if h == "" || i >= len(fields) {
				continue
			}
			v := strings.TrimSpace(fields[i])
			if v != "" {
				rec.Fields[h] = v
				blank = false
			}
		}
		if !blank {
			return rec, nil
		}
	}
}

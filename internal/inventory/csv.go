package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/hoafund/internal/money"
)

// Canonical column headers.
const (
	ColName      = "Component Name"
	ColCost      = "Current Cost"
	ColLife      = "Useful Life"
	ColRemaining = "Remaining Useful Life"
	ColNotes     = "Notes"
)

// RequiredColumns must be present (after alias mapping) in an import.
var RequiredColumns = []string{ColName, ColCost, ColLife, ColRemaining}

// ErrMissingColumns is returned when a CSV lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

// columnAliases maps lower-cased header spellings seen in exported reserve
// studies onto canonical columns.
var columnAliases = map[string]string{
	"component name":        ColName,
	"component":             ColName,
	"item":                  ColName,
	"name":                  ColName,
	"current cost":          ColCost,
	"cost":                  ColCost,
	"replacement cost":      ColCost,
	"useful life":           ColLife,
	"ul":                    ColLife,
	"life":                  ColLife,
	"remaining useful life": ColRemaining,
	"rul":                   ColRemaining,
	"remaining":             ColRemaining,
	"notes":                 ColNotes,
}

// ParseError reports a cell that could not be read. Line is the 1-based
// line in the CSV including the header.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %q: cannot use %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// CanonicalColumn maps a header to its canonical name, or "" if unknown.
func CanonicalColumn(header string) string {
	return columnAliases[strings.ToLower(strings.TrimSpace(header))]
}

// ReadCSV parses a component inventory. Headers are matched through
// CanonicalColumn; unknown columns are ignored. Blank rows are skipped.
// Numeric cells are never coerced: a bad value fails the import with a
// *ParseError.
func ReadCSV(r io.Reader) ([]Component, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumns)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if col := CanonicalColumn(h); col != "" {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var out []Component
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading line %d: %w", line, err)
		}
		if blankRecord(rec) {
			continue
		}

		cell := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		c := Component{Name: cell(ColName), Notes: cell(ColNotes)}
		if c.Name == "" {
			return nil, &ParseError{Line: line, Column: ColName, Err: errors.New("name is required")}
		}

		raw := cell(ColCost)
		cost, err := money.Parse(raw)
		if err != nil {
			return nil, &ParseError{Line: line, Column: ColCost, Value: raw, Err: err}
		}
		if cost < 0 {
			return nil, &ParseError{Line: line, Column: ColCost, Value: raw, Err: errors.New("cost must not be negative")}
		}
		c.CurrentCost = cost

		if c.UsefulLife, err = parseYears(cell(ColLife)); err != nil {
			return nil, &ParseError{Line: line, Column: ColLife, Value: cell(ColLife), Err: err}
		}
		if c.RemainingUsefulLife, err = parseYears(cell(ColRemaining)); err != nil {
			return nil, &ParseError{Line: line, Column: ColRemaining, Value: cell(ColRemaining), Err: err}
		}

		out = append(out, c)
	}

	return out, nil
}

// parseYears accepts whole, non-negative year counts, including "25.0" as
// spreadsheets tend to export them.
func parseYears(s string) (int, error) {
	if s == "" {
		return 0, errors.New("value is required")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, errors.New("must be a whole, non-negative number of years")
	}
	return int(f), nil
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteCSV writes components with canonical headers.
func WriteCSV(w io.Writer, components []Component) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColName, ColCost, ColLife, ColRemaining, ColNotes}); err != nil {
		return err
	}
	for _, c := range components {
		err := cw.Write([]string{
			c.Name,
			c.CurrentCost.String(),
			strconv.Itoa(c.UsefulLife),
			strconv.Itoa(c.RemainingUsefulLife),
			c.Notes,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package inventory

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/theirongolddev/hoafund/internal/money"
)

func TestReadCSV_Canonical(t *testing.T) {
	in := "Component Name,Current Cost,Useful Life,Remaining Useful Life,Notes\n" +
		"Roof,\"$120,000\",25,25,Boston Avg\n" +
		"Boiler,45000.50,25.0,15,\n"

	got, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []Component{
		{Name: "Roof", CurrentCost: money.FromCents(12000000), UsefulLife: 25, RemainingUsefulLife: 25, Notes: "Boston Avg"},
		{Name: "Boiler", CurrentCost: money.FromCents(4500050), UsefulLife: 25, RemainingUsefulLife: 15},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestReadCSV_AliasesAndExtraColumns(t *testing.T) {
	in := "\ufeffItem,Category,Replacement Cost,UL,RUL\n" +
		"Paint,Exterior,25000,6,3\n" +
		",,,,\n" +
		"Paving,Site,35000,20,5\n"

	got, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].Name != "Paving" || got[1].UsefulLife != 20 || got[1].RemainingUsefulLife != 5 {
		t.Errorf("got[1] = %+v", got[1])
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Name,Cost\nRoof,100\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("err = %v, want ErrMissingColumns", err)
	}
	if !strings.Contains(err.Error(), ColLife) || !strings.Contains(err.Error(), ColRemaining) {
		t.Errorf("error should name the missing columns: %v", err)
	}

	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("empty input: err = %v, want ErrMissingColumns", err)
	}
}

func TestReadCSV_BadCells(t *testing.T) {
	header := "Name,Cost,UL,RUL\n"
	tests := []struct {
		name   string
		row    string
		column string
	}{
		{"bad cost", "Roof,lots,25,25", ColCost},
		{"negative cost", "Roof,-5,25,25", ColCost},
		{"fractional life", "Roof,100,2.5,25", ColLife},
		{"negative remaining", "Roof,100,25,-1", ColRemaining},
		{"empty remaining", "Roof,100,25,", ColRemaining},
		{"missing name", ",100,25,25", ColName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := header + "Ok,1,1,1\n" + tt.row + "\n"
			_, err := ReadCSV(strings.NewReader(in))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("err = %v, want *ParseError", err)
			}
			if pe.Line != 3 {
				t.Errorf("Line = %d, want 3", pe.Line)
			}
			if pe.Column != tt.column {
				t.Errorf("Column = %q, want %q", pe.Column, tt.column)
			}
		})
	}
}

func TestWriteCSV_RoundTrip(t *testing.T) {
	components := []Component{
		{Name: "Roof, main", CurrentCost: money.FromCents(12000000), UsefulLife: 25, RemainingUsefulLife: 25, Notes: "Boston Avg"},
		{Name: "Boiler", CurrentCost: money.FromCents(4500050), UsefulLife: 25, RemainingUsefulLife: 15},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, components); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "Component Name,Current Cost,Useful Life,Remaining Useful Life,Notes\n") {
		t.Errorf("unexpected header: %q", buf.String())
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, components) {
		t.Fatalf("round trip = %+v, want %+v", got, components)
	}
}

func TestCanonicalColumn(t *testing.T) {
	if got := CanonicalColumn("  REMAINING useful life "); got != ColRemaining {
		t.Errorf("got %q", got)
	}
	if got := CanonicalColumn("Category"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

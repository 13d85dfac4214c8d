package fixation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewSet(t *testing.T) {
	tests := []struct {
		name    string
		cols    []Column
		wantErr bool
		wantLen int
	}{
		{"valid", []Column{
			{Name: ColStartT, Values: []float64{0, 100}},
			{Name: "start", Kind: KindInt, Values: []float64{1, 31}},
		}, false, 2},
		{"zero rows", []Column{{Name: ColStartT}, {Name: ColEndT}}, false, 0},
		{"no columns", nil, true, 0},
		{"unnamed", []Column{{Name: "", Values: []float64{1}}}, true, 0},
		{"duplicate", []Column{{Name: "a"}, {Name: "a"}}, true, 0},
		{"ragged", []Column{{Name: "a", Values: []float64{1}}, {Name: "b"}}, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSet(tt.cols)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.Len() != tt.wantLen {
				t.Errorf("Len = %d, want %d", s.Len(), tt.wantLen)
			}
			if verr := (Set{Columns: tt.cols}).Validate(); (verr != nil) != tt.wantErr {
				t.Errorf("Validate on literal = %v, wantErr %v", verr, tt.wantErr)
			}
		})
	}
}

func TestSetAccessors(t *testing.T) {
	s, err := NewSet([]Column{
		{Name: ColStartT, Values: []float64{0}},
		{Name: ColEndT, Values: []float64{50}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{ColStartT, ColEndT}, s.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
	if c := s.Column(ColEndT); c == nil || c.Values[0] != 50 {
		t.Errorf("Column(endT) = %+v", c)
	}
	if s.Column("missing") != nil {
		t.Error("Column(missing) should be nil")
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"int": KindInt, "float": KindFloat, "": KindFloat} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("string"); err == nil {
		t.Error("ParseKind(string) should fail")
	}
}

func TestOutcome(t *testing.T) {
	if !Success(Set{}).OK() {
		t.Error("Success should be OK")
	}
	if EmptyRecording().OK() || ClassificationFailed("x").OK() {
		t.Error("empty and failed outcomes must not be OK")
	}
	if got := ClassificationFailed("no fit").Reason; got != "no fit" {
		t.Errorf("Reason = %q", got)
	}
	if StatusEmptyRecording.String() != "empty" || StatusClassificationFailed.String() != "failed" {
		t.Error("unexpected Status strings")
	}
}

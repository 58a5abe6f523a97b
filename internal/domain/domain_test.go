package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"00:05", 5 * time.Second, false},
		{"2:00", 2 * time.Minute, false},
		{"99:59", 99*time.Minute + 59*time.Second, false},
		{"02:60", 0, true},
		{"2:5", 0, true},
		{"123:00", 0, true},
		{"", 0, true},
		{"aa:bb", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseClock(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := map[time.Duration]string{
		0:                                 "00:00",
		5 * time.Second:                   "00:05",
		2 * time.Minute:                   "02:00",
		61*time.Second + time.Millisecond: "01:01",
		-3 * time.Second:                  "00:00",
	}
	for in, want := range tests {
		if got := FormatClock(in); got != want {
			t.Fatalf("FormatClock(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestStepWithVariantKeepsKind(t *testing.T) {
	s := Step{ID: "a", Title: "Mix", Variant: Cooking{Duration: "01:00", TemperatureLevel: 1, MixSpeedLevel: 1}}

	edited, err := s.WithVariant(Cooking{Duration: "02:00", TemperatureLevel: 2, MixSpeedLevel: 2})
	if err != nil {
		t.Fatalf("same-kind edit: %v", err)
	}
	if edited.Variant.(Cooking).Duration != "02:00" || edited.ID != "a" {
		t.Fatalf("unexpected edit result: %+v", edited)
	}

	if _, err := s.WithVariant(Description{Text: "x"}); !errors.Is(err, ErrVariantKindChanged) {
		t.Fatalf("expected ErrVariantKindChanged, got %v", err)
	}
}

func TestCatalogMergeAndAll(t *testing.T) {
	c := NewCatalog([]Ingredient{{ID: 2, Title: "sugar"}, {ID: 1, Title: "flour"}})
	c.Merge([]Ingredient{{ID: 3, Title: "butter", Owner: "u1"}, {ID: 2, Title: "sugar", Unit: "g"}})

	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}
	all := c.All()
	if all[0].Title != "butter" || all[2].Title != "sugar" || all[2].Unit != "g" {
		t.Fatalf("unexpected order/content: %+v", all)
	}
	if !c.Has(3) || c.Has(9) {
		t.Fatal("Has reported wrong membership")
	}
	var nilCat *Catalog
	if nilCat.Has(1) {
		t.Fatal("nil catalog should be empty")
	}
}

func TestCatalogFindByTitle(t *testing.T) {
	c := NewCatalog([]Ingredient{
		{ID: 1, Title: "flour", Unit: "g"},
		{ID: 9, Title: "Flour", Unit: "g", Owner: "me"},
		{ID: 3, Title: "milk", Unit: "ml"},
	})

	if it, ok := c.FindByTitle(" FLOUR "); !ok || it.ID != 9 {
		t.Fatalf("expected private flour #9, got %+v ok=%v", it, ok)
	}
	if it, ok := c.FindByTitle("milk"); !ok || it.ID != 3 {
		t.Fatalf("expected milk #3, got %+v ok=%v", it, ok)
	}
	if _, ok := c.FindByTitle("salt"); ok {
		t.Fatal("salt should not be found")
	}
}

package main

import (
	"strings"
	"testing"
)

func TestListingRender(t *testing.T) {
	list := newListing(column{title: "ID", numeric: true}, column{title: "Title"}, column{title: "Deletable"})
	list.add(7, "saffron", "yes")
	list.add(12, "flour")

	out := list.render()
	for _, want := range []string{"ID", "Title", "saffron", "flour", "yes", "╭"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "<nil>") {
		t.Fatalf("missing cells should render empty:\n%s", out)
	}

	// The shorter id is padded on the left.
	if !strings.Contains(out, "│  7 │") {
		t.Fatalf("numeric column not right-aligned:\n%s", out)
	}

	if newListing().render() != "" {
		t.Fatal("a listing without columns renders nothing")
	}
}

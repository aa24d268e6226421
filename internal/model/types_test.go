package model

import "testing"

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("100,250")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 100 || p.Y != 250 {
		t.Fatalf("expected (100,250), got (%d,%d)", p.X, p.Y)
	}
}

func TestParsePoint_AllowsSpaces(t *testing.T) {
	p, err := ParsePoint(" 10 , 20 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 10 || p.Y != 20 {
		t.Fatalf("expected (10,20), got (%d,%d)", p.X, p.Y)
	}
}

func TestParsePoint_Invalid(t *testing.T) {
	for _, s := range []string{"", "100", "100,200,300", "a,b"} {
		if _, err := ParsePoint(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("0,0,200,300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Width != 200 || r.Height != 300 {
		t.Fatalf("expected 200x300, got %dx%d", r.Width, r.Height)
	}
}

func TestParseRegion_RejectsNonPositiveDimensions(t *testing.T) {
	for _, s := range []string{"0,0,0,300", "0,0,200,0", "0,0,-1,300"} {
		if _, err := ParseRegion(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}

func TestParseSortPolicy(t *testing.T) {
	cases := map[string]SortPolicy{
		"name":               SortByName,
		"by-name":            SortByName,
		"time":               SortByTimeAsc,
		"by-time-ascending":  SortByTimeAsc,
		"time-desc":          SortByTimeDesc,
		"by-time-descending": SortByTimeDesc,
		"TIME":               SortByTimeAsc,
	}
	for in, want := range cases {
		got, err := ParseSortPolicy(in)
		if err != nil {
			t.Fatalf("ParseSortPolicy(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseSortPolicy(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSortPolicy_Unknown(t *testing.T) {
	if _, err := ParseSortPolicy("size"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

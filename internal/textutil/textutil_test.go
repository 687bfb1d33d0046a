package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestSplitName(t *testing.T) {
	tests := []struct {
		in                  string
		first, middle, last string
	}{
		{"", "", "", ""},
		{"Moebius", "Moebius", "", "Moebius"},
		{"Alan Moore", "Alan", "", "Moore"},
		{"John Ronald Reuel Tolkien", "John", "Ronald Reuel", "Tolkien"},
	}
	for _, tt := range tests {
		first, middle, last := SplitName(tt.in)
		if first != tt.first || middle != tt.middle || last != tt.last {
			t.Errorf("SplitName(%q) = %q %q %q", tt.in, first, middle, last)
		}
	}
}

func TestJoinName(t *testing.T) {
	if got := JoinName("Ann", "", " Lee "); got != "Ann Lee" {
		t.Fatalf("JoinName = %q", got)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Tintin #7: L'Île Noire")
	want := []string{"tintin", "7", "île", "noire"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want func(float64) bool
	}{
		{"identical", "The Long Night", "the long night", func(v float64) bool { return math.Abs(v-1) < 1e-9 }},
		{"disjoint", "apple banana", "dog frog", func(v float64) bool { return v == 0 }},
		{"partial", "long night", "long day", func(v float64) bool { return v > 0 && v < 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(NewFingerprint(tt.a), NewFingerprint(tt.b))
			if !tt.want(got) {
				t.Errorf("CosineSimilarity(%q, %q) = %v", tt.a, tt.b, got)
			}
		})
	}
	if CosineSimilarity(nil, NewFingerprint("x y")) != 0 {
		t.Fatal("nil fingerprint should score 0")
	}
}

func TestContains(t *testing.T) {
	title := NewFingerprint("The Long Night Returns")
	if !title.Contains(NewFingerprint("night long")) {
		t.Fatal("expected all query tokens to match")
	}
	if title.Contains(NewFingerprint("night day")) {
		t.Fatal("expected missing token to fail")
	}
}

func TestSanitize(t *testing.T) {
	if got := SanitizeFileName(` page: 1/2?.png `); got != "page- 1-2.png" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	if got := SanitizeID("My Font.TTF"); got != "my_font.ttf" {
		t.Fatalf("SanitizeID = %q", got)
	}
	if got := SanitizeID("  "); got != "unknown" {
		t.Fatalf("SanitizeID empty = %q", got)
	}
}

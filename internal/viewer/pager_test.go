package viewer

import "testing"

func TestPagerClampsNavigation(t *testing.T) {
	p := NewPager(3, 0)
	if p.Current() != 1 {
		t.Fatalf("start = %d, want 1", p.Current())
	}
	if p.Prev() {
		t.Fatalf("Prev on the cover reported a change")
	}
	if !p.Next() || !p.Next() || p.Current() != 3 {
		t.Fatalf("after two Next current = %d, want 3", p.Current())
	}
	if p.Next() {
		t.Fatalf("Next on the last page reported a change")
	}
	if p.Go(99); p.Current() != 3 {
		t.Fatalf("Go(99) = %d, want 3", p.Current())
	}
}

func TestPagerLabel(t *testing.T) {
	p := NewPager(5, 1)
	if got := p.Label(); got != "Cover (1/5)" {
		t.Fatalf("Label = %q", got)
	}
	p.Go(4)
	if got := p.Label(); got != "Page 4/5" {
		t.Fatalf("Label = %q", got)
	}
	if got := NewPager(0, 7).Count(); got != 1 {
		t.Fatalf("empty pager count = %d, want 1", got)
	}
}

package analyzer

import "testing"

func TestQueryWords(t *testing.T) {
	got := QueryWords("  Best   RUNNING\tshoes ")
	want := []string{"best", "running", "shoes"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if len(QueryWords("   ")) != 0 {
		t.Errorf("expected no words for blank query")
	}
}

func TestTitleSetCounts(t *testing.T) {
	ts := newTitleSet([]string{"Shoes | Store", "Shoes - 2024 Guide", "shoes"})

	if n := ts.countFold("SHOES"); n != 3 {
		t.Errorf("expected 3 case-insensitive matches, got %d", n)
	}
	if n := ts.countAny([]string{"|"}); n != 1 {
		t.Errorf("expected 1 pipe title, got %d", n)
	}
	if n := ts.countAny([]string{" - "}); n != 1 {
		t.Errorf("expected 1 dash title, got %d", n)
	}
	if n := ts.countFunc(hasDigit); n != 1 {
		t.Errorf("expected 1 title with digits, got %d", n)
	}
}

package models

import "testing"

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"New":         StatusNew,
		"open":        StatusNew,
		"in progress": StatusInProgress,
		"InProgress":  StatusInProgress,
		"on_hold":     StatusOnHold,
		"RESOLVED":    StatusResolved,
		" closed ":    StatusClosed,
	}
	for in, want := range cases {
		got, ok := ParseStatus(in)
		if !ok || got != want {
			t.Errorf("ParseStatus(%q) = %q, %v", in, got, ok)
		}
	}
	for _, bad := range []string{"", "done", "reopened"} {
		if _, ok := ParseStatus(bad); ok {
			t.Errorf("ParseStatus(%q) accepted", bad)
		}
	}
}

func TestParseSeverityAndRank(t *testing.T) {
	s, ok := ParseSeverity("critical")
	if !ok || s != SeverityCritical || s.Rank() != 4 {
		t.Fatalf("got %q %v rank=%d", s, ok, s.Rank())
	}
	if _, ok := ParseSeverity("urgent"); ok {
		t.Fatalf("unknown severity accepted")
	}
	if Severity("x").Rank() != 0 {
		t.Fatalf("unknown severity ranked")
	}
}

func TestStatusClosed(t *testing.T) {
	if StatusOnHold.Closed() || !StatusResolved.Closed() || !StatusClosed.Closed() {
		t.Fatalf("Closed() mismatch")
	}
	got := ClosedStatuses()
	if len(got) != 2 || got[0] != "Resolved" || got[1] != "Closed" {
		t.Fatalf("ClosedStatuses() = %v", got)
	}
}

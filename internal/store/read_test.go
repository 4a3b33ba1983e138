package store

import (
	"context"
	"errors"
	"testing"
)

func TestGetTrace_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	original := makeTrace(t, "trace_r1", "Billing", "Charge", 5000, true)
	if _, err := s.SaveTrace(ctx, original, 1); err != nil {
		t.Fatalf("SaveTrace() failed: %v", err)
	}

	got, err := s.GetTrace(ctx, "trace_r1")
	if err != nil {
		t.Fatalf("GetTrace() failed: %v", err)
	}
	if got.ID != original.ID {
		t.Errorf("id = %q, want %q", got.ID, original.ID)
	}
	if got.Name != original.Name {
		t.Errorf("name = %q, want %q", got.Name, original.Name)
	}
	if len(got.Events) != len(original.Events) {
		t.Fatalf("events = %d, want %d", len(got.Events), len(original.Events))
	}
	if got.Events[0].ID != original.Events[0].ID {
		t.Errorf("event id = %q, want %q", got.Events[0].ID, original.Events[0].ID)
	}
	if got.Metadata != original.Metadata {
		t.Errorf("metadata = %+v, want %+v", got.Metadata, original.Metadata)
	}
}

func TestGetTrace_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetTrace(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestGetSummary_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetSummary(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListTraces_EmptyArchive(t *testing.T) {
	s := openTestStore(t)

	summaries, err := s.ListTraces(context.Background())
	if err != nil {
		t.Fatalf("ListTraces() failed: %v", err)
	}
	if summaries == nil {
		t.Fatal("ListTraces() returned nil, want empty slice")
	}
	if len(summaries) != 0 {
		t.Errorf("got %d summaries, want 0", len(summaries))
	}
}

func TestListTraces_DeterministicOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Insert out of order; listing must come back sorted by start_time,
	// then ID for ties.
	for _, tc := range []struct {
		id    string
		start int64
	}{
		{"trace_c", 3000},
		{"trace_b", 1000},
		{"trace_a", 1000},
	} {
		tr := makeTrace(t, tc.id, "Auth", "Login", tc.start, true)
		if _, err := s.SaveTrace(ctx, tr, 1); err != nil {
			t.Fatalf("SaveTrace(%s) failed: %v", tc.id, err)
		}
	}

	summaries, err := s.ListTraces(ctx)
	if err != nil {
		t.Fatalf("ListTraces() failed: %v", err)
	}

	want := []string{"trace_a", "trace_b", "trace_c"}
	if len(summaries) != len(want) {
		t.Fatalf("got %d summaries, want %d", len(summaries), len(want))
	}
	for i, id := range want {
		if summaries[i].ID != id {
			t.Errorf("summaries[%d].ID = %q, want %q", i, summaries[i].ID, id)
		}
	}
}

func TestListTracesByDomain(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, tc := range []struct {
		id     string
		domain string
	}{
		{"trace_auth1", "Auth"},
		{"trace_bill1", "Billing"},
		{"trace_auth2", "Auth"},
	} {
		tr := makeTrace(t, tc.id, tc.domain, "Op", 1000, true)
		if _, err := s.SaveTrace(ctx, tr, 1); err != nil {
			t.Fatalf("SaveTrace(%s) failed: %v", tc.id, err)
		}
	}

	summaries, err := s.ListTracesByDomain(ctx, "Auth")
	if err != nil {
		t.Fatalf("ListTracesByDomain() failed: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d summaries, want 2", len(summaries))
	}
	for _, summary := range summaries {
		if summary.Domain != "Auth" {
			t.Errorf("domain = %q, want Auth", summary.Domain)
		}
	}
}

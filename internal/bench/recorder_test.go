package bench

import (
	"testing"
	"time"
)

func TestRecorderSqlite(t *testing.T) {
	rec, err := Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rec.Close()

	id, err := rec.Record(Run{
		Protocol: "galaxy.txt",
		Expr:     "ap ap add 1 2",
		Evals:    3,
		Duration: 1500 * time.Microsecond,
	}).Await()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected a positive row id, got %d", id)
	}

	runs, err := rec.Runs("galaxy.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Evals != 3 {
		t.Errorf("expected 3 evals, got %d", runs[0].Evals)
	}
	if runs[0].Duration != 1500*time.Microsecond {
		t.Errorf("expected 1.5ms, got %s", runs[0].Duration)
	}
}

func TestRecorderNewestFirst(t *testing.T) {
	rec, err := Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rec.Close()

	for i, expr := range []string{"first", "second"} {
		if _, err := rec.Record(Run{Protocol: "p", Expr: expr, Evals: int64(i)}).Await(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	runs, err := rec.Runs("p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 || runs[0].Expr != "second" {
		t.Errorf("expected newest run first, got %+v", runs)
	}
}

func TestRecorderUnsupportedDriver(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Errorf("expected error for unsupported driver")
	}
}

package future

import (
	"errors"
	"testing"
	"time"
)

func TestAwait(t *testing.T) {
	cases := []struct {
		name    string
		future  *Future[int]
		wantVal int
		wantErr bool
	}{
		{"completed value", FromValue(42), 42, false},
		{"completed error", FromError[int](errors.New("failure")), 0, true},
		{"delayed value", New(func() (int, error) {
			time.Sleep(5 * time.Millisecond)
			return 200, nil
		}), 200, false},
		{"delayed error", New(func() (int, error) {
			time.Sleep(5 * time.Millisecond)
			return 0, errors.New("late failure")
		}), 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := tc.future.Await()
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error: %v, got: %v", tc.wantErr, err)
			}
			if val != tc.wantVal {
				t.Fatalf("expected value: %d, got: %d", tc.wantVal, val)
			}
		})
	}
}

func TestAwaitTimeout(t *testing.T) {
	slow := New(func() (int, error) {
		time.Sleep(250 * time.Millisecond)
		return 1, nil
	})
	if _, _, ok := slow.AwaitTimeout(5 * time.Millisecond); ok {
		t.Fatalf("expected timeout")
	}

	fast := FromValue(7)
	val, err, ok := fast.AwaitTimeout(time.Second)
	if !ok || err != nil || val != 7 {
		t.Fatalf("expected 7, got %d (err=%v, ok=%v)", val, err, ok)
	}
}

func TestDone(t *testing.T) {
	f := FromValue(1)
	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatalf("done channel never closed")
	}
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"
)

func TestIsBindParameterMismatch(t *testing.T) {
	t.Run("matches bind mismatch error", func(t *testing.T) {
		err := fakeErr("pq: bind message supplies 2 parameters, but prepared statement \"\" requires 1 (08P01)")
		if !isBindParameterMismatch(err) {
			t.Fatalf("expected true for bind mismatch error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation games does not exist")
		if isBindParameterMismatch(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestIsUnnamedPreparedStatementMissing(t *testing.T) {
	t.Run("matches statement missing message", func(t *testing.T) {
		err := fakeErr("pq: unnamed prepared statement does not exist (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for statement missing error")
		}
	})

	t.Run("matches by 26000 code", func(t *testing.T) {
		err := fakeErr("pq: prepared statement missing (26000)")
		if !isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected true for 26000 prepared statement error")
		}
	})

	t.Run("ignores unrelated error", func(t *testing.T) {
		err := fakeErr("pq: relation games does not exist")
		if isUnnamedPreparedStatementMissing(err) {
			t.Fatalf("expected false for unrelated error")
		}
	})
}

func TestWithStatementRetry(t *testing.T) {
	t.Run("retries once on dropped statement", func(t *testing.T) {
		calls := 0
		err := withStatementRetry(context.Background(), func(context.Context) error {
			calls++
			if calls == 1 {
				return fakeErr("pq: unnamed prepared statement does not exist (26000)")
			}
			return nil
		})
		if err != nil || calls != 2 {
			t.Fatalf("expected success after one retry, calls=%d err=%v", calls, err)
		}
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		err := withStatementRetry(context.Background(), func(context.Context) error {
			calls++
			return fakeErr("pq: relation games does not exist")
		})
		if err == nil || calls != 1 {
			t.Fatalf("expected single failing call, calls=%d err=%v", calls, err)
		}
	})
}

func TestIsNotFound(t *testing.T) {
	if !isNotFound(fmt.Errorf("select: %w", sql.ErrNoRows)) {
		t.Fatalf("expected wrapped ErrNoRows to match")
	}
	if isNotFound(fakeErr("boom")) {
		t.Fatalf("expected unrelated error not to match")
	}
}

func TestNullableConversions(t *testing.T) {
	if got := floatPtrToNull(nil); got.Valid {
		t.Fatalf("expected invalid null float for nil")
	}
	v := 1.85
	if got := nullFloatToPtr(floatPtrToNull(&v)); got == nil || *got != 1.85 {
		t.Fatalf("expected 1.85, got %v", got)
	}
	if got := nullFloatToPtr(sql.NullFloat64{}); got != nil {
		t.Fatalf("expected nil for null float")
	}

	at := time.Date(2025, 10, 2, 18, 0, 0, 0, time.UTC)
	if got := nullTimeToPtr(timePtrToNull(&at)); got == nil || !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}
	if got := nullTimeToPtr(timePtrToNull(nil)); got != nil {
		t.Fatalf("expected nil for null time")
	}
}

type fakeErr string

func (e fakeErr) Error() string { return string(e) }

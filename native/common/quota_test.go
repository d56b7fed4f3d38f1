package common

import (
	"errors"
	"math"
	"testing"
)

func TestQuotaEnabled(t *testing.T) {
	if (Quota{}).Enabled() {
		t.Fatalf("zero quota must be disabled")
	}
	if (Quota{MaxCreationsPerEpoch: 5}).Enabled() {
		t.Fatalf("quota without an epoch must be disabled")
	}
	if !(Quota{MaxCreationsPerEpoch: 5, EpochSeconds: 60}).Enabled() {
		t.Fatalf("configured quota must be enabled")
	}
}

func TestCheckQuotaCountsWithinEpoch(t *testing.T) {
	q := Quota{MaxCreationsPerEpoch: 2, EpochSeconds: 60}

	next, err := CheckQuota(q, 10, QuotaNow{}, 1)
	if err != nil {
		t.Fatalf("first creation: %v", err)
	}
	if next.Count != 1 || next.EpochID != 10 {
		t.Fatalf("unexpected counter: %+v", next)
	}

	next, err = CheckQuota(q, 10, next, 1)
	if err != nil {
		t.Fatalf("second creation: %v", err)
	}
	if next.Count != 2 {
		t.Fatalf("unexpected counter: %+v", next)
	}

	if _, err := CheckQuota(q, 10, next, 1); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("third creation must exceed the quota, got %v", err)
	}
}

func TestCheckQuotaResetsOnNewEpoch(t *testing.T) {
	q := Quota{MaxCreationsPerEpoch: 1, EpochSeconds: 60}
	full := QuotaNow{Count: 1, EpochID: 10}

	if _, err := CheckQuota(q, 10, full, 1); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("same epoch must stay exhausted, got %v", err)
	}
	next, err := CheckQuota(q, 11, full, 1)
	if err != nil {
		t.Fatalf("new epoch must reset: %v", err)
	}
	if next.Count != 1 || next.EpochID != 11 {
		t.Fatalf("unexpected counter after reset: %+v", next)
	}
}

func TestCheckQuotaCounterOverflow(t *testing.T) {
	q := Quota{MaxCreationsPerEpoch: 0, EpochSeconds: 60}
	prev := QuotaNow{Count: math.MaxUint32, EpochID: 10}
	if _, err := CheckQuota(q, 10, prev, 1); !errors.Is(err, ErrQuotaCounterOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
}

package common

import (
	"errors"
	"math"
)

var (
	ErrQuotaExceeded        = errors.New("quota creations exceeded")
	ErrQuotaCounterOverflow = errors.New("quota counter overflow")
)

// QuotaNow captures the current creation counter for an address within an
// epoch.
type QuotaNow struct {
	Count   uint32
	EpochID uint64
}

// Quota limits how many offers and bids an address may create per epoch. A
// zero MaxCreationsPerEpoch disables enforcement.
type Quota struct {
	MaxCreationsPerEpoch uint32
	EpochSeconds         uint32
}

// Enabled reports whether the quota carries an enforceable limit.
func (q Quota) Enabled() bool {
	return q.MaxCreationsPerEpoch > 0 && q.EpochSeconds > 0
}

// CheckQuota verifies whether an additional creation fits within the
// configured quota. The returned QuotaNow reflects the updated counter when
// the quota is not exceeded.
func CheckQuota(q Quota, nowEpoch uint64, prev QuotaNow, add uint32) (QuotaNow, error) {
	next := prev
	if prev.EpochID != nowEpoch {
		next = QuotaNow{EpochID: nowEpoch}
	}

	if add > 0 {
		if next.Count > math.MaxUint32-add {
			return prev, ErrQuotaCounterOverflow
		}
		next.Count += add
	}
	if q.MaxCreationsPerEpoch > 0 && next.Count > q.MaxCreationsPerEpoch {
		return prev, ErrQuotaExceeded
	}

	return next, nil
}

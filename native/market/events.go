package market

import (
	"encoding/hex"
	"math/big"
	"strconv"

	"tradewind/core/types"
)

const (
	EventTypeOfferCreated       = "market.offer.created"
	EventTypeOfferStatusChanged = "market.offer.status_changed"
	EventTypeBidPlaced          = "market.bid.placed"
	EventTypeBidStatusChanged   = "market.bid.status_changed"
	EventTypeBalanceCredited    = "market.balance.credited"
	EventTypeBalanceWithdrawn   = "market.balance.withdrawn"
)

// BalanceCreditReason identifies why a ledger entry was credited.
type BalanceCreditReason uint8

const (
	CreditReasonOrderCompletion BalanceCreditReason = iota
	CreditReasonOrderRefund
	CreditReasonOfferCancellation
	CreditReasonBidCancellation
)

func (r BalanceCreditReason) String() string {
	switch r {
	case CreditReasonOrderCompletion:
		return "order_completion"
	case CreditReasonOrderRefund:
		return "order_refund"
	case CreditReasonOfferCancellation:
		return "offer_cancellation"
	case CreditReasonBidCancellation:
		return "bid_cancellation"
	default:
		return "unknown"
	}
}

// NewOfferCreatedEvent returns the canonical event payload for a newly
// created offer.
func NewOfferCreatedEvent(o *Offer) *types.Event {
	attrs := make(map[string]string)
	if o != nil {
		attrs["id"] = hex.EncodeToString(o.ID[:])
		attrs["token"] = hex.EncodeToString(o.Token[:])
		attrs["creator"] = hex.EncodeToString(o.Creator[:])
	}
	return &types.Event{Type: EventTypeOfferCreated, Attributes: attrs}
}

// NewOfferStatusChangedEvent returns the event emitted when an offer's status
// changes.
func NewOfferStatusChangedEvent(id [32]byte, status Status) *types.Event {
	return &types.Event{Type: EventTypeOfferStatusChanged, Attributes: map[string]string{
		"id":     hex.EncodeToString(id[:]),
		"status": strconv.FormatUint(uint64(status), 10),
	}}
}

// NewBidPlacedEvent returns the canonical event payload for a newly placed
// bid.
func NewBidPlacedEvent(b *Bid) *types.Event {
	attrs := make(map[string]string)
	if b != nil {
		attrs["bidId"] = hex.EncodeToString(b.ID[:])
		attrs["offerId"] = hex.EncodeToString(b.OfferID[:])
		attrs["creator"] = hex.EncodeToString(b.Creator[:])
	}
	return &types.Event{Type: EventTypeBidPlaced, Attributes: attrs}
}

// NewBidStatusChangedEvent returns the event emitted when a bid's status
// changes.
func NewBidStatusChangedEvent(id [32]byte, status Status) *types.Event {
	return &types.Event{Type: EventTypeBidStatusChanged, Attributes: map[string]string{
		"id":     hex.EncodeToString(id[:]),
		"status": strconv.FormatUint(uint64(status), 10),
	}}
}

// NewBalanceCreditedEvent returns the event emitted when a ledger entry is
// credited on cancellation or refund.
func NewBalanceCreditedEvent(account, token [20]byte, reason BalanceCreditReason, amount, newBalance *big.Int) *types.Event {
	return &types.Event{Type: EventTypeBalanceCredited, Attributes: map[string]string{
		"account":    hex.EncodeToString(account[:]),
		"token":      hex.EncodeToString(token[:]),
		"reason":     strconv.FormatUint(uint64(reason), 10),
		"amount":     cloneBigInt(amount).String(),
		"newBalance": cloneBigInt(newBalance).String(),
	}}
}

// NewBalanceWithdrawnEvent returns the event emitted when a ledger credit is
// paid out to its owner.
func NewBalanceWithdrawnEvent(account, token [20]byte, amount, newBalance *big.Int) *types.Event {
	return &types.Event{Type: EventTypeBalanceWithdrawn, Attributes: map[string]string{
		"account":    hex.EncodeToString(account[:]),
		"token":      hex.EncodeToString(token[:]),
		"amount":     cloneBigInt(amount).String(),
		"newBalance": cloneBigInt(newBalance).String(),
	}}
}

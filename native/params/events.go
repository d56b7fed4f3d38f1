package params

import (
	"encoding/hex"
	"strconv"

	"tradewind/core/types"
)

const (
	EventTypeProtocolFeePercentageUpdated                 = "params.protocol_fee_percentage_updated"
	EventTypeDisputeHandlerFeePercentageCommissionUpdated = "params.dispute_handler_fee_percentage_commission_updated"
	EventTypeMaxDisputeHandlerFeePercentageUpdated        = "params.max_dispute_handler_fee_percentage_updated"
	EventTypeTokenBlacklistUpdated                        = "params.token_blacklist_updated"
	EventTypePaused                                       = "params.paused"
	EventTypeUnpaused                                     = "params.unpaused"
)

// NewProtocolFeePercentageUpdatedEvent returns the change event for the
// protocol fee setter.
func NewProtocolFeePercentageUpdatedEvent(bps uint32) *types.Event {
	return newValueUpdatedEvent(EventTypeProtocolFeePercentageUpdated, bps)
}

// NewDisputeHandlerFeePercentageCommissionUpdatedEvent returns the change
// event for the commission setter.
func NewDisputeHandlerFeePercentageCommissionUpdatedEvent(bps uint32) *types.Event {
	return newValueUpdatedEvent(EventTypeDisputeHandlerFeePercentageCommissionUpdated, bps)
}

// NewMaxDisputeHandlerFeePercentageUpdatedEvent returns the change event for
// the fee-cap setter.
func NewMaxDisputeHandlerFeePercentageUpdatedEvent(bps uint32) *types.Event {
	return newValueUpdatedEvent(EventTypeMaxDisputeHandlerFeePercentageUpdated, bps)
}

// NewTokenBlacklistUpdatedEvent returns the change event emitted when an
// asset's blacklist flag flips.
func NewTokenBlacklistUpdatedEvent(token [20]byte, blacklisted bool) *types.Event {
	return &types.Event{Type: EventTypeTokenBlacklistUpdated, Attributes: map[string]string{
		"token":       hex.EncodeToString(token[:]),
		"blacklisted": strconv.FormatBool(blacklisted),
	}}
}

// NewPausedEvent returns the event emitted when the admin pauses the engine.
func NewPausedEvent(account [20]byte) *types.Event {
	return &types.Event{Type: EventTypePaused, Attributes: map[string]string{
		"account": hex.EncodeToString(account[:]),
	}}
}

// NewUnpausedEvent returns the event emitted when the admin lifts the pause.
func NewUnpausedEvent(account [20]byte) *types.Event {
	return &types.Event{Type: EventTypeUnpaused, Attributes: map[string]string{
		"account": hex.EncodeToString(account[:]),
	}}
}

func newValueUpdatedEvent(eventType string, bps uint32) *types.Event {
	return &types.Event{Type: eventType, Attributes: map[string]string{
		"value": strconv.FormatUint(uint64(bps), 10),
	}}
}

package params

import (
	"fmt"
	"math/big"
)

// BpsDenominator is the fee unit: 10000 basis points = 100%.
const BpsDenominator = 10_000

// FeeConfig carries the protocol-wide fee parameters, all in basis points.
// Values are caller-trusted: governance owns them and the engine only reads
// them, so no bounds are enforced beyond the representable range.
type FeeConfig struct {
	ProtocolFeeBps                 uint32
	DisputeHandlerFeeCommissionBps uint32
	MaxDisputeHandlerFeeBps        uint32
}

// FeeBreakdown is the result of splitting a settlement amount into protocol,
// dispute-handler and net shares.
type FeeBreakdown struct {
	ProtocolFee       *big.Int
	DisputeHandlerFee *big.Int
	Commission        *big.Int
	Net               *big.Int
}

// Split computes the fee shares for a settlement of the given amount backed by
// a dispute handler charging disputeHandlerFeeBps. The commission is the
// protocol's cut of the dispute handler's fee and is included in
// DisputeHandlerFee; callers route Commission to the treasury and the
// remainder to the handler's fee receiver.
func (c FeeConfig) Split(amount *big.Int, disputeHandlerFeeBps uint32) (FeeBreakdown, error) {
	if amount == nil || amount.Sign() < 0 {
		return FeeBreakdown{}, fmt.Errorf("params: split amount must be non-negative")
	}
	denominator := big.NewInt(BpsDenominator)

	protocolFee := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(c.ProtocolFeeBps)))
	protocolFee.Div(protocolFee, denominator)

	handlerFee := new(big.Int).Mul(amount, new(big.Int).SetUint64(uint64(disputeHandlerFeeBps)))
	handlerFee.Div(handlerFee, denominator)

	commission := new(big.Int).Mul(handlerFee, new(big.Int).SetUint64(uint64(c.DisputeHandlerFeeCommissionBps)))
	commission.Div(commission, denominator)

	net := new(big.Int).Sub(amount, protocolFee)
	net.Sub(net, handlerFee)
	if net.Sign() < 0 {
		return FeeBreakdown{}, fmt.Errorf("params: fees exceed settlement amount")
	}
	return FeeBreakdown{
		ProtocolFee:       protocolFee,
		DisputeHandlerFee: handlerFee,
		Commission:        commission,
		Net:               net,
	}, nil
}

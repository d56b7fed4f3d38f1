package market

import (
	"fmt"
	"math/big"
)

// Status is the lifecycle state shared by offers and bids. Offers move
// between Active and Paused and terminate in Canceled; bids move from Active
// to Canceled or to the terminal Accepted.
type Status uint8

const (
	StatusUnset Status = iota
	StatusActive
	StatusPaused
	StatusCanceled
	StatusAccepted
)

// MaxOrderProcessingTime is the hard cap on the processing window either side
// may declare, in seconds.
const MaxOrderProcessingTime uint64 = 7 * 24 * 60 * 60

// ValidForOffer reports whether the status is within an offer's lifecycle.
func (s Status) ValidForOffer() bool {
	switch s {
	case StatusUnset, StatusActive, StatusPaused, StatusCanceled:
		return true
	default:
		return false
	}
}

// ValidForBid reports whether the status is within a bid's lifecycle.
func (s Status) ValidForBid() bool {
	switch s {
	case StatusUnset, StatusActive, StatusCanceled, StatusAccepted:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusUnset:
		return "unset"
	case StatusActive:
		return "active"
	case StatusPaused:
		return "paused"
	case StatusCanceled:
		return "canceled"
	case StatusAccepted:
		return "accepted"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ItemTerms describes the off-chain side of a trade and the dispute handler
// backing it. The proof is a signature by the dispute handler over the
// canonical digest of the enclosing offer or bid, minus the proof itself.
type ItemTerms struct {
	ChargeNonDispute          bool
	HasExternalItem           bool
	ItemData                  []byte
	DisputeHandler            [20]byte
	DisputeHandlerFeeReceiver [20]byte
	DisputeHandlerFeeBps      uint32
	DisputeHandlerProof       []byte
}

// Clone returns a deep copy of the item terms.
func (i ItemTerms) Clone() ItemTerms {
	clone := i
	clone.ItemData = append([]byte(nil), i.ItemData...)
	clone.DisputeHandlerProof = append([]byte(nil), i.DisputeHandlerProof...)
	return clone
}

// Offer is a standing proposal to exchange an amount of a token, or an
// item-only proposal, under fixed terms. Identifiers are caller-chosen and
// globally unique; zero is reserved.
type Offer struct {
	ID                  [32]byte
	Creator             [20]byte
	Token               [20]byte
	TotalAmount         *big.Int
	AvailableAmount     *big.Int
	MinAmount           *big.Int
	MaxAmount           *big.Int
	OrderProcessingTime uint64
	Status              Status
	Item                ItemTerms
}

// Clone returns a deep copy of the offer so callers can safely mutate the
// copy without affecting the stored instance.
func (o *Offer) Clone() *Offer {
	if o == nil {
		return nil
	}
	clone := *o
	clone.TotalAmount = cloneBigInt(o.TotalAmount)
	clone.AvailableAmount = cloneBigInt(o.AvailableAmount)
	clone.MinAmount = cloneBigInt(o.MinAmount)
	clone.MaxAmount = cloneBigInt(o.MaxAmount)
	clone.Item = o.Item.Clone()
	return &clone
}

// Bid is a counter-party's claim against a specific offer for a sub-amount of
// it, escrowing TokenAmount of the bidder's own token.
type Bid struct {
	ID               [32]byte
	OfferID          [32]byte
	Creator          [20]byte
	Token            [20]byte
	TokenAmount      *big.Int
	OfferTokenAmount *big.Int
	ProcessingTime   uint64
	Status           Status
	Item             ItemTerms
}

// Clone returns a deep copy of the bid.
func (b *Bid) Clone() *Bid {
	if b == nil {
		return nil
	}
	clone := *b
	clone.TokenAmount = cloneBigInt(b.TokenAmount)
	clone.OfferTokenAmount = cloneBigInt(b.OfferTokenAmount)
	clone.Item = b.Item.Clone()
	return &clone
}

// SanitizeOffer validates and normalises the supplied offer, returning a
// cloned instance with non-nil amount fields. The original value is not
// mutated.
func SanitizeOffer(o *Offer) (*Offer, error) {
	if o == nil {
		return nil, fmt.Errorf("nil offer")
	}
	clone := o.Clone()
	if !clone.Status.ValidForOffer() {
		return nil, fmt.Errorf("invalid offer status: %d", clone.Status)
	}
	for _, amt := range []*big.Int{clone.TotalAmount, clone.AvailableAmount, clone.MinAmount, clone.MaxAmount} {
		if amt.Sign() < 0 {
			return nil, fmt.Errorf("offer amounts must be non-negative")
		}
	}
	return clone, nil
}

// SanitizeBid validates and normalises the supplied bid.
func SanitizeBid(b *Bid) (*Bid, error) {
	if b == nil {
		return nil, fmt.Errorf("nil bid")
	}
	clone := b.Clone()
	if !clone.Status.ValidForBid() {
		return nil, fmt.Errorf("invalid bid status: %d", clone.Status)
	}
	if clone.TokenAmount.Sign() < 0 || clone.OfferTokenAmount.Sign() < 0 {
		return nil, fmt.Errorf("bid amounts must be non-negative")
	}
	return clone, nil
}

func cloneBigInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

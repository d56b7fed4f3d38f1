package market

import (
	"math/big"

	"tradewind/native/common"
)

// PlaceBid validates, funds and persists a new bid against the referenced
// offer's current state. The bid must arrive already Active; the caller must
// be the declared creator.
func (e *Engine) PlaceBid(bid *Bid, caller [20]byte, useBalance bool, coinValue *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.custody == nil {
		return errNilCustody
	}
	if err := common.Guard(e.pauses, marketModuleName); err != nil {
		return err
	}
	sanitized, err := SanitizeBid(bid)
	if err != nil {
		return err
	}
	if sanitized.ID == ([32]byte{}) {
		return ErrIdTaken
	}
	if _, exists := e.state.BidGet(sanitized.ID); exists {
		return ErrIdTaken
	}
	if caller != sanitized.Creator {
		return ErrUnauthorized
	}
	if e.tokenBlacklisted(sanitized.Token) {
		return ErrTokenBlacklisted
	}
	if sanitized.Status != StatusActive {
		return ErrBidStatusInvalid
	}
	if sanitized.ProcessingTime > MaxOrderProcessingTime {
		return ErrOrderProcessingTimeInvalid
	}
	offer, ok := e.state.OfferGet(sanitized.OfferID)
	if !ok {
		return ErrOfferNotFound
	}
	if offer.Status != StatusActive {
		return ErrOfferStatusInvalid
	}
	if err := validateBidAmounts(sanitized, offer); err != nil {
		return err
	}
	digest, err := BidDigest(sanitized)
	if err != nil {
		return err
	}
	if err := validateItem(sanitized.Item, digest, e.maxDisputeHandlerFeeBps(), &offer.Item); err != nil {
		return err
	}
	quotaNext, quotaEnforced, err := e.checkQuota(sanitized.Creator)
	if err != nil {
		return err
	}
	if err := e.collectFunds(sanitized.Creator, sanitized.Token, sanitized.TokenAmount, useBalance, coinValue); err != nil {
		return err
	}
	if err := e.state.BidPut(sanitized); err != nil {
		return err
	}
	if quotaEnforced {
		if err := e.state.QuotaPut(sanitized.Creator, quotaNext); err != nil {
			return err
		}
	}
	e.emit(NewBidPlacedEvent(sanitized))
	return nil
}

// CancelBid cancels an Active bid and credits its escrow back to the creator's
// ledger entry. Only the bid creator may cancel; accepted bids are final.
func (e *Engine) CancelBid(id [32]byte, caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, marketModuleName); err != nil {
		return err
	}
	bid, ok := e.state.BidGet(id)
	if !ok {
		return ErrBidStatusInvalid
	}
	if caller != bid.Creator {
		return ErrUnauthorized
	}
	if bid.Status != StatusActive {
		return ErrBidStatusInvalid
	}
	bid = bid.Clone()
	bid.Status = StatusCanceled
	if err := e.state.BidPut(bid); err != nil {
		return err
	}
	e.emit(NewBidStatusChangedEvent(id, StatusCanceled))
	if bid.Token != ([20]byte{}) && bid.TokenAmount.Sign() > 0 {
		if err := e.creditBalance(bid.Creator, bid.Token, bid.TokenAmount, CreditReasonBidCancellation); err != nil {
			return err
		}
	}
	return nil
}

// AcceptBid accepts an Active bid on behalf of the offer creator, reduces the
// offer's available amount by the claimed portion and hands the matched pair
// to the order sink. Acceptance is terminal for the bid.
func (e *Engine) AcceptBid(id [32]byte, caller [20]byte) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, marketModuleName); err != nil {
		return err
	}
	bid, ok := e.state.BidGet(id)
	if !ok {
		return ErrBidStatusInvalid
	}
	offer, ok := e.state.OfferGet(bid.OfferID)
	if !ok {
		return ErrOfferNotFound
	}
	if caller != offer.Creator {
		return ErrUnauthorized
	}
	if bid.Status != StatusActive {
		return ErrBidStatusInvalid
	}
	if offer.Status != StatusActive {
		return ErrOfferStatusInvalid
	}
	offer = offer.Clone()
	if offer.Token != ([20]byte{}) {
		// The bid passed this check at placement, but sibling bids may have
		// drained the offer since.
		if offer.AvailableAmount.Cmp(bid.OfferTokenAmount) < 0 {
			return ErrAmountInvalid
		}
		offer.AvailableAmount = new(big.Int).Sub(offer.AvailableAmount, bid.OfferTokenAmount)
	}
	bid = bid.Clone()
	bid.Status = StatusAccepted
	if err := e.state.OfferPut(offer); err != nil {
		return err
	}
	if err := e.state.BidPut(bid); err != nil {
		return err
	}
	e.emit(NewBidStatusChangedEvent(id, StatusAccepted))
	e.sink.HandleAccepted(offer.Clone(), bid.Clone())
	return nil
}

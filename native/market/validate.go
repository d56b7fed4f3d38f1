package market

// validateOfferAmounts enforces the offer's asset invariants: an item-only
// offer carries no amounts at all, a token offer carries a full, consistent
// amount range.
func validateOfferAmounts(o *Offer) error {
	if o.Token == ([20]byte{}) {
		if o.TotalAmount.Sign() != 0 {
			return ErrAmountInvalid
		}
		if !o.Item.HasExternalItem {
			return ErrTokenOrItemRequired
		}
		if o.AvailableAmount.Sign() != 0 || o.MaxAmount.Sign() != 0 || o.MinAmount.Sign() != 0 {
			return ErrAmountInvalid
		}
		return nil
	}
	if o.TotalAmount.Sign() == 0 {
		return ErrAmountInvalid
	}
	if o.AvailableAmount.Cmp(o.TotalAmount) != 0 {
		return ErrAmountInvalid
	}
	if o.MinAmount.Sign() == 0 {
		return ErrAmountInvalid
	}
	if o.MaxAmount.Cmp(o.MinAmount) < 0 {
		return ErrAmountInvalid
	}
	if o.MaxAmount.Cmp(o.TotalAmount) > 0 {
		return ErrAmountInvalid
	}
	return nil
}

// validateBidAmounts mirrors the offer rules for the bid's own escrow and
// checks the claimed portion against the referenced offer's current bounds
// and availability.
func validateBidAmounts(b *Bid, offer *Offer) error {
	if b.Token == ([20]byte{}) {
		if b.TokenAmount.Sign() != 0 {
			return ErrAmountInvalid
		}
		if !b.Item.HasExternalItem {
			return ErrTokenOrItemRequired
		}
	} else if b.TokenAmount.Sign() == 0 {
		return ErrAmountInvalid
	}
	if b.OfferTokenAmount.Cmp(offer.MinAmount) < 0 {
		return ErrAmountInvalid
	}
	if b.OfferTokenAmount.Cmp(offer.MaxAmount) > 0 {
		return ErrAmountInvalid
	}
	if b.OfferTokenAmount.Cmp(offer.AvailableAmount) > 0 {
		return ErrAmountInvalid
	}
	return nil
}

// validateItem checks the item payload and the dispute-handler terms. For
// bids, offerItem carries the referenced offer's terms and the handler must
// match it. A declared handler requires a fee receiver, a fee within the
// protocol cap, and a valid proof over the record digest.
func validateItem(item ItemTerms, digest [32]byte, maxFeeBps uint32, offerItem *ItemTerms) error {
	if item.HasExternalItem && len(item.ItemData) == 0 {
		return ErrItemDataInvalid
	}
	if offerItem != nil && item.DisputeHandler != offerItem.DisputeHandler {
		return ErrDisputeHandlerMismatch
	}
	if item.DisputeHandler == ([20]byte{}) {
		if item.HasExternalItem {
			return ErrDisputeHandlerRequired
		}
		return nil
	}
	if item.DisputeHandlerFeeReceiver == ([20]byte{}) {
		return ErrDisputeHandlerFeeReceiverRequired
	}
	if item.DisputeHandlerFeeBps > maxFeeBps {
		return ErrFeeTooHigh
	}
	if !VerifyProof(digest, item.DisputeHandler, item.DisputeHandlerProof) {
		return ErrSignatureInvalid
	}
	return nil
}

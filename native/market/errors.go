package market

import "fmt"

// StandardError is the closed set of validation failures surfaced by the
// engine. Every rejection carries a specific variant so callers can branch on
// cause; variants are stable tagged values, not strings.
type StandardError uint8

const (
	ErrGeneric StandardError = iota
	ErrUnauthorized
	ErrIdTaken
	ErrTokenBlacklisted
	ErrOfferStatusInvalid
	ErrBidStatusInvalid
	ErrOrderStatusInvalid
	ErrAmountInvalid
	ErrTokenOrItemRequired
	ErrOfferNotFound
	ErrDisputeHandlerMismatch
	ErrOrderProcessingTimeInvalid
	ErrFeeTooHigh
	ErrItemDataInvalid
	ErrAccountRequired
	ErrDisputeHandlerRequired
	ErrDisputeHandlerFeeReceiverRequired
	ErrSignatureInvalid
	ErrCoinDepositRejected
	ErrCoinWithdrawalFailed
	ErrInsufficientBalance
	ErrOrderInactive
	ErrOfferInactive
	ErrBidCanceled
	ErrBidAccepted
	ErrOrderAlreadyProcessing
	ErrProcessingTimeNotElapsed
	ErrExternalItemNotPaid
)

var standardErrorNames = [...]string{
	ErrGeneric:                           "Generic",
	ErrUnauthorized:                      "Unauthorized",
	ErrIdTaken:                           "IdTaken",
	ErrTokenBlacklisted:                  "TokenBlacklisted",
	ErrOfferStatusInvalid:                "OfferStatusInvalid",
	ErrBidStatusInvalid:                  "BidStatusInvalid",
	ErrOrderStatusInvalid:                "OrderStatusInvalid",
	ErrAmountInvalid:                     "AmountInvalid",
	ErrTokenOrItemRequired:               "TokenOrItemRequired",
	ErrOfferNotFound:                     "OfferNotFound",
	ErrDisputeHandlerMismatch:            "DisputeHandlerMismatch",
	ErrOrderProcessingTimeInvalid:        "OrderProcessingTimeInvalid",
	ErrFeeTooHigh:                        "FeeTooHigh",
	ErrItemDataInvalid:                   "ItemDataInvalid",
	ErrAccountRequired:                   "AccountRequired",
	ErrDisputeHandlerRequired:            "DisputeHandlerRequired",
	ErrDisputeHandlerFeeReceiverRequired: "DisputeHandlerFeeReceiverRequired",
	ErrSignatureInvalid:                  "SignatureInvalid",
	ErrCoinDepositRejected:               "CoinDepositRejected",
	ErrCoinWithdrawalFailed:              "CoinWithdrawalFailed",
	ErrInsufficientBalance:               "InsufficientBalance",
	ErrOrderInactive:                     "OrderInactive",
	ErrOfferInactive:                     "OfferInactive",
	ErrBidCanceled:                       "BidCanceled",
	ErrBidAccepted:                       "BidAccepted",
	ErrOrderAlreadyProcessing:            "OrderAlreadyProcessing",
	ErrProcessingTimeNotElapsed:          "ProcessingTimeNotElapsed",
	ErrExternalItemNotPaid:               "ExternalItemNotPaid",
}

// String returns the variant name.
func (e StandardError) String() string {
	if int(e) < len(standardErrorNames) {
		return standardErrorNames[e]
	}
	return fmt.Sprintf("StandardError(%d)", uint8(e))
}

// Error implements the error interface.
func (e StandardError) Error() string {
	return "market: " + e.String()
}

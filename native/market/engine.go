package market

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"tradewind/core/events"
	"tradewind/core/types"
	"tradewind/native/common"
	"tradewind/native/custody"
)

var (
	errNilState   = errors.New("market engine: state not configured")
	errNilCustody = errors.New("market engine: asset custody not configured")
)

// ErrBidNotFound reports a read of a bid id with no stored record. Mutation
// paths keep rejecting unknown bids with the BidStatusInvalid variant.
var ErrBidNotFound = errors.New("market: bid not found")

const marketModuleName = "market"

// engineState is the narrow persistence surface the engine requires. Offers
// and bids are stored whole; ledger balances are keyed by (account, token).
type engineState interface {
	OfferPut(*Offer) error
	OfferGet(id [32]byte) (*Offer, bool)
	BidPut(*Bid) error
	BidGet(id [32]byte) (*Bid, bool)
	BalanceGet(account, token [20]byte) (*big.Int, error)
	BalancePut(account, token [20]byte, amount *big.Int) error
	QuotaGet(account [20]byte) (common.QuotaNow, error)
	QuotaPut(account [20]byte, usage common.QuotaNow) error
}

// AssetCustody abstracts holding and moving escrowed value. Failures from the
// collaborator are surfaced verbatim; the engine cannot reason about their
// cause.
type AssetCustody interface {
	TransferIn(token [20]byte, from [20]byte, amount *big.Int) error
	TransferOut(token [20]byte, to [20]byte, amount *big.Int) error
}

// ParamsView exposes the protocol configuration read during validation.
type ParamsView interface {
	MaxDisputeHandlerFeeBps() uint32
	IsTokenBlacklisted(token [20]byte) bool
}

// OrderSink consumes an accepted (offer, bid) pair. The post-acceptance order
// lifecycle is a separate component; the engine's responsibility ends at a
// correctly-funded, terms-agreed pair.
type OrderSink interface {
	HandleAccepted(offer *Offer, bid *Bid)
}

// NoopOrderSink discards accepted pairs.
type NoopOrderSink struct{}

// HandleAccepted implements the OrderSink interface.
func (NoopOrderSink) HandleAccepted(*Offer, *Bid) {}

type marketEvent struct {
	evt *types.Event
}

func (e marketEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e marketEvent) Event() *types.Event { return e.evt }

// Engine wires the offer book and bid engine with external state, asset
// custody, protocol parameters and event emitters. Mutating operations are
// single-writer: callers serialize them, and each either fully applies or
// fully fails.
type Engine struct {
	state   engineState
	custody AssetCustody
	params  ParamsView
	emitter events.Emitter
	sink    OrderSink
	pauses  common.PauseView
	quota   common.Quota
	nowFn   func() int64
}

// NewEngine creates a market engine with a no-op emitter and order sink.
// Callers override collaborators via the Set* methods.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		sink:    NoopOrderSink{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state engineState) { e.state = state }

// SetCustody configures the asset custody collaborator.
func (e *Engine) SetCustody(c AssetCustody) { e.custody = c }

// SetParams configures the protocol parameter view.
func (e *Engine) SetParams(p ParamsView) { e.params = p }

// SetPauses configures the pause view gating mutating operations.
func (e *Engine) SetPauses(p common.PauseView) { e.pauses = p }

// SetQuota configures the per-address creation quota. The zero value disables
// enforcement.
func (e *Engine) SetQuota(q common.Quota) { e.quota = q }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetOrderSink configures the consumer of accepted pairs. Passing nil resets
// it to a no-op implementation.
func (e *Engine) SetOrderSink(sink OrderSink) {
	if sink == nil {
		e.sink = NoopOrderSink{}
		return
	}
	e.sink = sink
}

// SetNowFunc overrides the time source used for quota epochs. Primarily
// intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(marketEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) maxDisputeHandlerFeeBps() uint32 {
	if e == nil || e.params == nil {
		return 0
	}
	return e.params.MaxDisputeHandlerFeeBps()
}

func (e *Engine) tokenBlacklisted(token [20]byte) bool {
	if e == nil || e.params == nil || token == ([20]byte{}) {
		return false
	}
	return e.params.IsTokenBlacklisted(token)
}

// --- balance ledger ---

// BalanceOf returns the withdrawable ledger credit for (account, token).
func (e *Engine) BalanceOf(account, token [20]byte) (*big.Int, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	bal, err := e.state.BalanceGet(account, token)
	if err != nil {
		return nil, err
	}
	return cloneBigInt(bal), nil
}

// creditBalance adds amount to the ledger entry and emits BalanceCredited.
// Credits never touch custody: withdrawal is a separate, owner-initiated pull
// so a misbehaving receiver cannot block a cancellation.
func (e *Engine) creditBalance(account, token [20]byte, amount *big.Int, reason BalanceCreditReason) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("market: negative balance credit")
	}
	current, err := e.state.BalanceGet(account, token)
	if err != nil {
		return err
	}
	newBalance := new(big.Int).Add(cloneBigInt(current), amount)
	if err := e.state.BalancePut(account, token, newBalance); err != nil {
		return err
	}
	e.emit(NewBalanceCreditedEvent(account, token, reason, amount, newBalance))
	return nil
}

// debitBalance removes amount from the ledger entry, failing with
// ErrInsufficientBalance when the credit does not cover it.
func (e *Engine) debitBalance(account, token [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("market: negative balance debit")
	}
	current, err := e.state.BalanceGet(account, token)
	if err != nil {
		return err
	}
	have := cloneBigInt(current)
	if have.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	return e.state.BalancePut(account, token, have.Sub(have, amount))
}

// Withdraw pays out a ledger credit to its owner via asset custody.
func (e *Engine) Withdraw(caller, token [20]byte, amount *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.custody == nil {
		return errNilCustody
	}
	if err := common.Guard(e.pauses, marketModuleName); err != nil {
		return err
	}
	if token == ([20]byte{}) {
		return ErrAmountInvalid
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrAmountInvalid
	}
	current, err := e.state.BalanceGet(caller, token)
	if err != nil {
		return err
	}
	have := cloneBigInt(current)
	if have.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	// Payout before debit: a failed custody transfer must leave the ledger
	// credit untouched.
	if err := e.custody.TransferOut(token, caller, amount); err != nil {
		if custody.IsCoin(token) {
			return ErrCoinWithdrawalFailed
		}
		return err
	}
	newBalance := have.Sub(have, amount)
	if err := e.state.BalancePut(caller, token, newBalance); err != nil {
		return err
	}
	e.emit(NewBalanceWithdrawnEvent(caller, token, amount, cloneBigInt(newBalance)))
	return nil
}

// --- funding ---

// collectFunds escrows amount of token on behalf of owner, either by
// consuming an existing ledger credit or through a fresh custody transfer.
// For the native coin the attached value must equal the amount exactly.
func (e *Engine) collectFunds(owner, token [20]byte, amount *big.Int, useBalance bool, coinValue *big.Int) error {
	if token == ([20]byte{}) {
		return nil
	}
	if useBalance {
		return e.debitBalance(owner, token, amount)
	}
	if custody.IsCoin(token) {
		if coinValue == nil || coinValue.Cmp(amount) != 0 {
			return ErrCoinDepositRejected
		}
	}
	return e.custody.TransferIn(token, owner, amount)
}

// --- quotas ---

// checkQuota validates the creation quota for the account and returns the
// updated counter to persist once the operation succeeds.
func (e *Engine) checkQuota(account [20]byte) (common.QuotaNow, bool, error) {
	if !e.quota.Enabled() {
		return common.QuotaNow{}, false, nil
	}
	prev, err := e.state.QuotaGet(account)
	if err != nil {
		return common.QuotaNow{}, false, err
	}
	epoch := uint64(e.now()) / uint64(e.quota.EpochSeconds)
	next, err := common.CheckQuota(e.quota, epoch, prev, 1)
	if err != nil {
		return common.QuotaNow{}, false, err
	}
	return next, true, nil
}

// --- offer book ---

// CreateOffer validates, funds and persists a new offer. The offer must
// arrive already Active; the caller must be the declared creator. coinValue
// is the native currency attached to the request, if any.
func (e *Engine) CreateOffer(offer *Offer, caller [20]byte, useBalance bool, coinValue *big.Int) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.custody == nil {
		return errNilCustody
	}
	if err := common.Guard(e.pauses, marketModuleName); err != nil {
		return err
	}
	sanitized, err := SanitizeOffer(offer)
	if err != nil {
		return err
	}
	if sanitized.ID == ([32]byte{}) {
		return ErrIdTaken
	}
	if _, exists := e.state.OfferGet(sanitized.ID); exists {
		return ErrIdTaken
	}
	if caller != sanitized.Creator {
		return ErrUnauthorized
	}
	if e.tokenBlacklisted(sanitized.Token) {
		return ErrTokenBlacklisted
	}
	if sanitized.Status != StatusActive {
		return ErrOfferStatusInvalid
	}
	if sanitized.OrderProcessingTime > MaxOrderProcessingTime {
		return ErrOrderProcessingTimeInvalid
	}
	if err := validateOfferAmounts(sanitized); err != nil {
		return err
	}
	digest, err := OfferDigest(sanitized)
	if err != nil {
		return err
	}
	if err := validateItem(sanitized.Item, digest, e.maxDisputeHandlerFeeBps(), nil); err != nil {
		return err
	}
	quotaNext, quotaEnforced, err := e.checkQuota(sanitized.Creator)
	if err != nil {
		return err
	}
	if err := e.collectFunds(sanitized.Creator, sanitized.Token, sanitized.TotalAmount, useBalance, coinValue); err != nil {
		return err
	}
	if err := e.state.OfferPut(sanitized); err != nil {
		return err
	}
	if quotaEnforced {
		if err := e.state.QuotaPut(sanitized.Creator, quotaNext); err != nil {
			return err
		}
	}
	e.emit(NewOfferCreatedEvent(sanitized))
	return nil
}

// UpdateOfferStatus moves an offer between Active and Paused or cancels it.
// Cancellation is terminal and credits the unmatched remainder to the
// creator's ledger entry; already-matched portions stay escrowed for their
// in-flight orders.
func (e *Engine) UpdateOfferStatus(id [32]byte, caller [20]byte, newStatus Status) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if err := common.Guard(e.pauses, marketModuleName); err != nil {
		return err
	}
	switch newStatus {
	case StatusActive, StatusPaused, StatusCanceled:
	default:
		return ErrOfferStatusInvalid
	}
	offer, ok := e.state.OfferGet(id)
	if !ok {
		return ErrOfferNotFound
	}
	if caller != offer.Creator {
		return ErrUnauthorized
	}
	if offer.Status == StatusCanceled {
		return ErrOfferInactive
	}
	offer = offer.Clone()
	offer.Status = newStatus
	refund := big.NewInt(0)
	if newStatus == StatusCanceled && offer.Token != ([20]byte{}) {
		refund = cloneBigInt(offer.AvailableAmount)
		offer.AvailableAmount = big.NewInt(0)
	}
	if err := e.state.OfferPut(offer); err != nil {
		return err
	}
	e.emit(NewOfferStatusChangedEvent(id, newStatus))
	if refund.Sign() > 0 {
		if err := e.creditBalance(offer.Creator, offer.Token, refund, CreditReasonOfferCancellation); err != nil {
			return err
		}
	}
	return nil
}

// GetOffer returns a copy of the stored offer.
func (e *Engine) GetOffer(id [32]byte) (*Offer, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	offer, ok := e.state.OfferGet(id)
	if !ok {
		return nil, ErrOfferNotFound
	}
	return offer.Clone(), nil
}

// GetBid returns a copy of the stored bid.
func (e *Engine) GetBid(id [32]byte) (*Bid, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	bid, ok := e.state.BidGet(id)
	if !ok {
		return nil, ErrBidNotFound
	}
	return bid.Clone(), nil
}

package storage

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"tradewind/core/types"
	"tradewind/native/common"
	"tradewind/native/market"
	"tradewind/native/params"
)

// Key prefixes. Offers and bids are keyed by id, balances by (account, token),
// accounts and quotas by address.
var (
	offerPrefix     = []byte("market/offer/")
	bidPrefix       = []byte("market/bid/")
	balancePrefix   = []byte("market/balance/")
	quotaPrefix     = []byte("market/quota/")
	accountPrefix   = []byte("market/account/")
	feeConfigKey    = []byte("params/fees")
	blacklistPrefix = []byte("params/blacklist/")
	pausedKey       = []byte("params/paused")
)

// State persists market objects, ledger balances, accounts and protocol
// parameters in a key-value database using canonical RLP encodings. It is the
// single state backend shared by the market engine, asset custody and the
// parameter manager.
type State struct {
	db Database
}

// NewState creates a state manager on top of the supplied database.
func NewState(db Database) *State {
	return &State{db: db}
}

func key(prefix []byte, suffix ...[]byte) []byte {
	k := append([]byte(nil), prefix...)
	for _, s := range suffix {
		k = append(k, s...)
	}
	return k
}

// --- stored encodings ---

type storedItemTerms struct {
	ChargeNonDispute          bool
	HasExternalItem           bool
	ItemData                  []byte
	DisputeHandler            [20]byte
	DisputeHandlerFeeReceiver [20]byte
	DisputeHandlerFeeBps      uint32
	DisputeHandlerProof       []byte
}

type storedOffer struct {
	ID                  [32]byte
	Creator             [20]byte
	Token               [20]byte
	TotalAmount         *big.Int
	AvailableAmount     *big.Int
	MinAmount           *big.Int
	MaxAmount           *big.Int
	OrderProcessingTime uint64
	Status              uint8
	Item                storedItemTerms
}

type storedBid struct {
	ID               [32]byte
	OfferID          [32]byte
	Creator          [20]byte
	Token            [20]byte
	TokenAmount      *big.Int
	OfferTokenAmount *big.Int
	ProcessingTime   uint64
	Status           uint8
	Item             storedItemTerms
}

type storedQuota struct {
	Count   uint32
	EpochID uint64
}

type storedTokenBalance struct {
	Token  [20]byte
	Amount *big.Int
}

// storedAccount flattens the balances map into a token-sorted list so the
// encoding is deterministic.
type storedAccount struct {
	Nonce    uint64
	Balances []storedTokenBalance
}

type storedFeeConfig struct {
	ProtocolFeeBps                 uint32
	DisputeHandlerFeeCommissionBps uint32
	MaxDisputeHandlerFeeBps        uint32
}

func toStoredItemTerms(item market.ItemTerms) storedItemTerms {
	return storedItemTerms{
		ChargeNonDispute:          item.ChargeNonDispute,
		HasExternalItem:           item.HasExternalItem,
		ItemData:                  item.ItemData,
		DisputeHandler:            item.DisputeHandler,
		DisputeHandlerFeeReceiver: item.DisputeHandlerFeeReceiver,
		DisputeHandlerFeeBps:      item.DisputeHandlerFeeBps,
		DisputeHandlerProof:       item.DisputeHandlerProof,
	}
}

func (s storedItemTerms) toItemTerms() market.ItemTerms {
	return market.ItemTerms{
		ChargeNonDispute:          s.ChargeNonDispute,
		HasExternalItem:           s.HasExternalItem,
		ItemData:                  s.ItemData,
		DisputeHandler:            s.DisputeHandler,
		DisputeHandlerFeeReceiver: s.DisputeHandlerFeeReceiver,
		DisputeHandlerFeeBps:      s.DisputeHandlerFeeBps,
		DisputeHandlerProof:       s.DisputeHandlerProof,
	}
}

// --- market engine state ---

// OfferPut stores the offer under its id.
func (s *State) OfferPut(offer *market.Offer) error {
	if offer == nil {
		return fmt.Errorf("storage: nil offer")
	}
	stored := storedOffer{
		ID:                  offer.ID,
		Creator:             offer.Creator,
		Token:               offer.Token,
		TotalAmount:         offer.TotalAmount,
		AvailableAmount:     offer.AvailableAmount,
		MinAmount:           offer.MinAmount,
		MaxAmount:           offer.MaxAmount,
		OrderProcessingTime: offer.OrderProcessingTime,
		Status:              uint8(offer.Status),
		Item:                toStoredItemTerms(offer.Item),
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("storage: encode offer: %w", err)
	}
	return s.db.Put(key(offerPrefix, offer.ID[:]), encoded)
}

// OfferGet loads the offer stored under id, reporting whether it exists.
func (s *State) OfferGet(id [32]byte) (*market.Offer, bool) {
	raw, ok, err := s.db.Get(key(offerPrefix, id[:]))
	if err != nil || !ok {
		return nil, false
	}
	var stored storedOffer
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false
	}
	return &market.Offer{
		ID:                  stored.ID,
		Creator:             stored.Creator,
		Token:               stored.Token,
		TotalAmount:         stored.TotalAmount,
		AvailableAmount:     stored.AvailableAmount,
		MinAmount:           stored.MinAmount,
		MaxAmount:           stored.MaxAmount,
		OrderProcessingTime: stored.OrderProcessingTime,
		Status:              market.Status(stored.Status),
		Item:                stored.Item.toItemTerms(),
	}, true
}

// BidPut stores the bid under its id.
func (s *State) BidPut(bid *market.Bid) error {
	if bid == nil {
		return fmt.Errorf("storage: nil bid")
	}
	stored := storedBid{
		ID:               bid.ID,
		OfferID:          bid.OfferID,
		Creator:          bid.Creator,
		Token:            bid.Token,
		TokenAmount:      bid.TokenAmount,
		OfferTokenAmount: bid.OfferTokenAmount,
		ProcessingTime:   bid.ProcessingTime,
		Status:           uint8(bid.Status),
		Item:             toStoredItemTerms(bid.Item),
	}
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("storage: encode bid: %w", err)
	}
	return s.db.Put(key(bidPrefix, bid.ID[:]), encoded)
}

// BidGet loads the bid stored under id, reporting whether it exists.
func (s *State) BidGet(id [32]byte) (*market.Bid, bool) {
	raw, ok, err := s.db.Get(key(bidPrefix, id[:]))
	if err != nil || !ok {
		return nil, false
	}
	var stored storedBid
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, false
	}
	return &market.Bid{
		ID:               stored.ID,
		OfferID:          stored.OfferID,
		Creator:          stored.Creator,
		Token:            stored.Token,
		TokenAmount:      stored.TokenAmount,
		OfferTokenAmount: stored.OfferTokenAmount,
		ProcessingTime:   stored.ProcessingTime,
		Status:           market.Status(stored.Status),
		Item:             stored.Item.toItemTerms(),
	}, true
}

// BalanceGet returns the ledger credit stored for (account, token). A missing
// entry reads as zero.
func (s *State) BalanceGet(account, token [20]byte) (*big.Int, error) {
	raw, ok, err := s.db.Get(key(balancePrefix, account[:], token[:]))
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	balance := new(big.Int)
	if err := rlp.DecodeBytes(raw, balance); err != nil {
		return nil, fmt.Errorf("storage: decode balance: %w", err)
	}
	return balance, nil
}

// BalancePut stores the ledger credit for (account, token).
func (s *State) BalancePut(account, token [20]byte, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("storage: balance must be non-negative")
	}
	encoded, err := rlp.EncodeToBytes(amount)
	if err != nil {
		return fmt.Errorf("storage: encode balance: %w", err)
	}
	return s.db.Put(key(balancePrefix, account[:], token[:]), encoded)
}

// QuotaGet returns the creation-quota counter for the account. A missing entry
// reads as the zero counter.
func (s *State) QuotaGet(account [20]byte) (common.QuotaNow, error) {
	raw, ok, err := s.db.Get(key(quotaPrefix, account[:]))
	if err != nil || !ok {
		return common.QuotaNow{}, err
	}
	var stored storedQuota
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return common.QuotaNow{}, fmt.Errorf("storage: decode quota: %w", err)
	}
	return common.QuotaNow{Count: stored.Count, EpochID: stored.EpochID}, nil
}

// QuotaPut stores the creation-quota counter for the account.
func (s *State) QuotaPut(account [20]byte, usage common.QuotaNow) error {
	encoded, err := rlp.EncodeToBytes(&storedQuota{Count: usage.Count, EpochID: usage.EpochID})
	if err != nil {
		return fmt.Errorf("storage: encode quota: %w", err)
	}
	return s.db.Put(key(quotaPrefix, account[:]), encoded)
}

// --- custody accounts ---

// AccountGet loads the account stored for addr, or nil when none exists.
func (s *State) AccountGet(addr [20]byte) (*types.Account, error) {
	raw, ok, err := s.db.Get(key(accountPrefix, addr[:]))
	if err != nil || !ok {
		return nil, err
	}
	var stored storedAccount
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, fmt.Errorf("storage: decode account: %w", err)
	}
	account := types.NewAccount()
	account.Nonce = stored.Nonce
	for _, entry := range stored.Balances {
		account.SetBalance(entry.Token, entry.Amount)
	}
	return account, nil
}

// AccountPut stores the account for addr.
func (s *State) AccountPut(addr [20]byte, account *types.Account) error {
	if account == nil {
		return fmt.Errorf("storage: nil account")
	}
	stored := storedAccount{Nonce: account.Nonce}
	for token, amount := range account.Balances {
		stored.Balances = append(stored.Balances, storedTokenBalance{Token: token, Amount: amount})
	}
	sort.Slice(stored.Balances, func(i, j int) bool {
		a, b := stored.Balances[i].Token, stored.Balances[j].Token
		for k := range a {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return false
	})
	encoded, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return fmt.Errorf("storage: encode account: %w", err)
	}
	return s.db.Put(key(accountPrefix, addr[:]), encoded)
}

// --- protocol parameters ---

// FeeConfigGet returns the stored fee configuration. A missing entry reads as
// the zero configuration.
func (s *State) FeeConfigGet() (params.FeeConfig, error) {
	raw, ok, err := s.db.Get(feeConfigKey)
	if err != nil || !ok {
		return params.FeeConfig{}, err
	}
	var stored storedFeeConfig
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return params.FeeConfig{}, fmt.Errorf("storage: decode fee config: %w", err)
	}
	return params.FeeConfig{
		ProtocolFeeBps:                 stored.ProtocolFeeBps,
		DisputeHandlerFeeCommissionBps: stored.DisputeHandlerFeeCommissionBps,
		MaxDisputeHandlerFeeBps:        stored.MaxDisputeHandlerFeeBps,
	}, nil
}

// FeeConfigPut stores the fee configuration.
func (s *State) FeeConfigPut(cfg params.FeeConfig) error {
	encoded, err := rlp.EncodeToBytes(&storedFeeConfig{
		ProtocolFeeBps:                 cfg.ProtocolFeeBps,
		DisputeHandlerFeeCommissionBps: cfg.DisputeHandlerFeeCommissionBps,
		MaxDisputeHandlerFeeBps:        cfg.MaxDisputeHandlerFeeBps,
	})
	if err != nil {
		return fmt.Errorf("storage: encode fee config: %w", err)
	}
	return s.db.Put(feeConfigKey, encoded)
}

// TokenBlacklistedGet reports whether the token is blacklisted.
func (s *State) TokenBlacklistedGet(token [20]byte) (bool, error) {
	raw, ok, err := s.db.Get(key(blacklistPrefix, token[:]))
	if err != nil || !ok {
		return false, err
	}
	var blacklisted bool
	if err := rlp.DecodeBytes(raw, &blacklisted); err != nil {
		return false, fmt.Errorf("storage: decode blacklist flag: %w", err)
	}
	return blacklisted, nil
}

// TokenBlacklistedPut stores the blacklist flag for the token.
func (s *State) TokenBlacklistedPut(token [20]byte, blacklisted bool) error {
	encoded, err := rlp.EncodeToBytes(blacklisted)
	if err != nil {
		return fmt.Errorf("storage: encode blacklist flag: %w", err)
	}
	return s.db.Put(key(blacklistPrefix, token[:]), encoded)
}

// PausedGet reports whether the global pause flag is set.
func (s *State) PausedGet() (bool, error) {
	raw, ok, err := s.db.Get(pausedKey)
	if err != nil || !ok {
		return false, err
	}
	var paused bool
	if err := rlp.DecodeBytes(raw, &paused); err != nil {
		return false, fmt.Errorf("storage: decode pause flag: %w", err)
	}
	return paused, nil
}

// PausedPut stores the global pause flag.
func (s *State) PausedPut(paused bool) error {
	encoded, err := rlp.EncodeToBytes(paused)
	if err != nil {
		return fmt.Errorf("storage: encode pause flag: %w", err)
	}
	return s.db.Put(pausedKey, encoded)
}

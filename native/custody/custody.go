package custody

import (
	"errors"
	"fmt"
	"math/big"

	"tradewind/core/types"
)

var (
	errNilState             = errors.New("custody: state not configured")
	ErrInsufficientFunds    = errors.New("custody: insufficient funds")
	ErrTokenNotTransferable = errors.New("custody: token is not transferable")
)

// CoinAddress is the sentinel asset reference for the native currency. The
// zero address means "no fungible asset" and is never transferable.
var CoinAddress = [20]byte{
	0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE,
	0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE, 0xEE,
}

// IsCoin reports whether the asset reference addresses the native currency.
func IsCoin(token [20]byte) bool {
	return token == CoinAddress
}

// State abstracts the account storage custody moves value between.
type State interface {
	AccountGet(addr [20]byte) (*types.Account, error)
	AccountPut(addr [20]byte, account *types.Account) error
}

// Ledger is an account-backed asset custody: escrowed value is held on a
// dedicated vault account and moved with checked balance arithmetic. Transfers
// either fully apply or fully fail.
type Ledger struct {
	state State
	vault [20]byte
}

// NewLedger creates a custody ledger holding escrowed value on the supplied
// vault address.
func NewLedger(vault [20]byte) *Ledger {
	return &Ledger{vault: vault}
}

// SetState configures the account backend used by the ledger.
func (l *Ledger) SetState(state State) { l.state = state }

// Vault returns the address escrowed value is held on.
func (l *Ledger) Vault() [20]byte { return l.vault }

// TransferIn moves amount of token from the given account into the vault.
func (l *Ledger) TransferIn(token [20]byte, from [20]byte, amount *big.Int) error {
	return l.transfer(token, from, l.vault, amount)
}

// TransferOut moves amount of token from the vault to the given account.
func (l *Ledger) TransferOut(token [20]byte, to [20]byte, amount *big.Int) error {
	return l.transfer(token, l.vault, to, amount)
}

func (l *Ledger) transfer(token [20]byte, from, to [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if token == ([20]byte{}) {
		return ErrTokenNotTransferable
	}
	if amount == nil || amount.Sign() == 0 {
		return nil
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("custody: negative transfer amount")
	}
	fromAcc, err := l.state.AccountGet(from)
	if err != nil {
		return err
	}
	if fromAcc == nil {
		fromAcc = types.NewAccount()
	}
	fromBal := fromAcc.BalanceOf(token)
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	// A self-transfer is a funded no-op; writing two copies of the same
	// account would let the stale credit clobber the debit.
	if from == to {
		return nil
	}
	toAcc, err := l.state.AccountGet(to)
	if err != nil {
		return err
	}
	if toAcc == nil {
		toAcc = types.NewAccount()
	}
	fromAcc.SetBalance(token, new(big.Int).Sub(fromBal, amount))
	toAcc.SetBalance(token, new(big.Int).Add(toAcc.BalanceOf(token), amount))
	if err := l.state.AccountPut(from, fromAcc); err != nil {
		return err
	}
	if err := l.state.AccountPut(to, toAcc); err != nil {
		return err
	}
	return nil
}

// Mint credits amount of token to an account without a counter-debit. It
// exists for genesis funding and tests; nothing in the market engine calls it.
func (l *Ledger) Mint(token [20]byte, to [20]byte, amount *big.Int) error {
	if l == nil || l.state == nil {
		return errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("custody: mint amount must be positive")
	}
	acc, err := l.state.AccountGet(to)
	if err != nil {
		return err
	}
	if acc == nil {
		acc = types.NewAccount()
	}
	acc.SetBalance(token, new(big.Int).Add(acc.BalanceOf(token), amount))
	return l.state.AccountPut(to, acc)
}

package types

import "math/big"

// Account holds the fungible balances custody moves value between. Balances
// are keyed by token address; the coin sentinel address holds the native
// currency balance.
type Account struct {
	Nonce    uint64
	Balances map[[20]byte]*big.Int
}

// NewAccount returns an account with an initialised balance table.
func NewAccount() *Account {
	return &Account{Balances: make(map[[20]byte]*big.Int)}
}

// BalanceOf returns the balance held for the given token. The returned value
// is a copy; mutating it does not affect the account.
func (a *Account) BalanceOf(token [20]byte) *big.Int {
	if a == nil || a.Balances == nil {
		return big.NewInt(0)
	}
	bal, ok := a.Balances[token]
	if !ok || bal == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(bal)
}

// SetBalance stores the balance for the given token, initialising the table
// when needed.
func (a *Account) SetBalance(token [20]byte, amount *big.Int) {
	if a == nil {
		return
	}
	if a.Balances == nil {
		a.Balances = make(map[[20]byte]*big.Int)
	}
	if amount == nil {
		amount = big.NewInt(0)
	}
	a.Balances[token] = new(big.Int).Set(amount)
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	if a == nil {
		return NewAccount()
	}
	clone := &Account{Nonce: a.Nonce, Balances: make(map[[20]byte]*big.Int, len(a.Balances))}
	for token, bal := range a.Balances {
		if bal == nil {
			bal = big.NewInt(0)
		}
		clone.Balances[token] = new(big.Int).Set(bal)
	}
	return clone
}

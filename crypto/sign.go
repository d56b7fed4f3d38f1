package crypto

import (
	"crypto/ecdsa"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

const signedMessagePrefix = "\x19Ethereum Signed Message:\n32"

// proofHash wraps a 32-byte digest in the personal-message envelope so proofs
// produced by standard wallet signers verify against the same digest.
func proofHash(digest [32]byte) []byte {
	return ethcrypto.Keccak256([]byte(signedMessagePrefix), digest[:])
}

// SignDigest produces a 65-byte recoverable signature over the personal-message
// hash of the supplied digest.
func SignDigest(digest [32]byte, key *ecdsa.PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, fmt.Errorf("crypto: signing key required")
	}
	return ethcrypto.Sign(proofHash(digest), key)
}

// VerifySignature reports whether sig is a valid signature over digest by the
// expected signer. It never returns an error: malformed signatures simply fail
// verification.
func VerifySignature(digest [32]byte, signer [20]byte, sig []byte) bool {
	if len(sig) != 65 {
		return false
	}
	normalized := make([]byte, 65)
	copy(normalized, sig)
	// Wallet signers emit V as 27/28; go-ethereum expects 0/1.
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pubKey, err := ethcrypto.SigToPub(proofHash(digest), normalized)
	if err != nil {
		return false
	}
	recovered := ethcrypto.PubkeyToAddress(*pubKey)
	return [20]byte(recovered) == signer
}

package crypto

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

func TestSignAndVerifyDigest(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := key.PubKey().RawAddress()
	digest := [32]byte{0x01, 0x02, 0x03}

	sig, err := SignDigest(digest, key.PrivateKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("expected 65-byte signature, got %d", len(sig))
	}
	if !VerifySignature(digest, signer, sig) {
		t.Fatalf("valid signature must verify")
	}
}

func TestVerifySignatureRejections(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := key.PubKey().RawAddress()
	digest := [32]byte{0xAA}
	sig, err := SignDigest(digest, key.PrivateKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if VerifySignature(digest, signer, sig[:64]) {
		t.Fatalf("truncated signature must fail")
	}
	tampered := append([]byte(nil), sig...)
	tampered[10] ^= 0xFF
	if VerifySignature(digest, signer, tampered) {
		t.Fatalf("tampered signature must fail")
	}
	other := [32]byte{0xBB}
	if VerifySignature(other, signer, sig) {
		t.Fatalf("signature over another digest must fail")
	}
	if VerifySignature(digest, [20]byte{0x01}, sig) {
		t.Fatalf("wrong signer must fail")
	}
}

func TestVerifySignatureNormalisesV(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	signer := key.PubKey().RawAddress()
	digest := [32]byte{0x42}
	sig, err := SignDigest(digest, key.PrivateKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Wallet-style signatures carry V as 27/28.
	walletSig := append([]byte(nil), sig...)
	walletSig[64] += 27
	if !VerifySignature(digest, signer, walletSig) {
		t.Fatalf("wallet-style V must verify")
	}
}

func TestAddressRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	addr := key.PubKey().Address()
	decoded, err := DecodeAddress(addr.String())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.RawAddress() != addr.RawAddress() {
		t.Fatalf("bech32 round trip lost the payload")
	}
	if decoded.Prefix() != TradePrefix {
		t.Fatalf("unexpected prefix: %s", decoded.Prefix())
	}

	if _, err := DecodeAddress("not-bech32"); err == nil {
		t.Fatalf("malformed address must fail")
	}
}

func TestPrivateKeyBytesRoundTrip(t *testing.T) {
	key, err := GeneratePrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	restored, err := PrivateKeyFromBytes(key.Bytes())
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.PubKey().RawAddress() != key.PubKey().RawAddress() {
		t.Fatalf("restored key must derive the same address")
	}
	if ethcrypto.PubkeyToAddress(restored.PrivateKey.PublicKey) != ethcrypto.PubkeyToAddress(key.PrivateKey.PublicKey) {
		t.Fatalf("restored key mismatch")
	}
}

package market

import (
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"tradewind/crypto"
)

// Domain tags keep offer and bid digests disjoint even for records with
// identical field contents.
const (
	offerDigestTag = "tradewind/offer/v1"
	bidDigestTag   = "tradewind/bid/v1"
)

// The digest structs mirror their records field for field, minus the
// dispute-handler proof. RLP gives a length-prefixed, order-fixed encoding, so
// two semantically distinct records can never share a digest through field
// reordering or boundary confusion.
type itemDigest struct {
	ChargeNonDispute          bool
	HasExternalItem           bool
	ItemData                  []byte
	DisputeHandler            [20]byte
	DisputeHandlerFeeReceiver [20]byte
	DisputeHandlerFeeBps      uint32
}

type offerDigest struct {
	ID                  [32]byte
	Creator             [20]byte
	Token               [20]byte
	TotalAmount         []byte
	AvailableAmount     []byte
	MinAmount           []byte
	MaxAmount           []byte
	OrderProcessingTime uint64
	Status              uint8
	Item                itemDigest
}

type bidDigest struct {
	ID               [32]byte
	OfferID          [32]byte
	Creator          [20]byte
	Token            [20]byte
	TokenAmount      []byte
	OfferTokenAmount []byte
	ProcessingTime   uint64
	Status           uint8
	Item             itemDigest
}

func newItemDigest(item ItemTerms) itemDigest {
	return itemDigest{
		ChargeNonDispute:          item.ChargeNonDispute,
		HasExternalItem:           item.HasExternalItem,
		ItemData:                  item.ItemData,
		DisputeHandler:            item.DisputeHandler,
		DisputeHandlerFeeReceiver: item.DisputeHandlerFeeReceiver,
		DisputeHandlerFeeBps:      item.DisputeHandlerFeeBps,
	}
}

// OfferDigest computes the canonical keccak256 digest of the offer's terms,
// excluding the dispute-handler proof.
func OfferDigest(o *Offer) ([32]byte, error) {
	if o == nil {
		return [32]byte{}, fmt.Errorf("market: nil offer")
	}
	encoded, err := rlp.EncodeToBytes(&offerDigest{
		ID:                  o.ID,
		Creator:             o.Creator,
		Token:               o.Token,
		TotalAmount:         cloneBigInt(o.TotalAmount).Bytes(),
		AvailableAmount:     cloneBigInt(o.AvailableAmount).Bytes(),
		MinAmount:           cloneBigInt(o.MinAmount).Bytes(),
		MaxAmount:           cloneBigInt(o.MaxAmount).Bytes(),
		OrderProcessingTime: o.OrderProcessingTime,
		Status:              uint8(o.Status),
		Item:                newItemDigest(o.Item),
	})
	if err != nil {
		return [32]byte{}, fmt.Errorf("market: encode offer digest: %w", err)
	}
	return ethcrypto.Keccak256Hash([]byte(offerDigestTag), encoded), nil
}

// BidDigest computes the canonical keccak256 digest of the bid's terms,
// excluding the dispute-handler proof.
func BidDigest(b *Bid) ([32]byte, error) {
	if b == nil {
		return [32]byte{}, fmt.Errorf("market: nil bid")
	}
	encoded, err := rlp.EncodeToBytes(&bidDigest{
		ID:               b.ID,
		OfferID:          b.OfferID,
		Creator:          b.Creator,
		Token:            b.Token,
		TokenAmount:      cloneBigInt(b.TokenAmount).Bytes(),
		OfferTokenAmount: cloneBigInt(b.OfferTokenAmount).Bytes(),
		ProcessingTime:   b.ProcessingTime,
		Status:           uint8(b.Status),
		Item:             newItemDigest(b.Item),
	})
	if err != nil {
		return [32]byte{}, fmt.Errorf("market: encode bid digest: %w", err)
	}
	return ethcrypto.Keccak256Hash([]byte(bidDigestTag), encoded), nil
}

// VerifyProof reports whether sig is a valid dispute-handler signature over
// the digest by the expected signer. A false result is translated by callers
// into ErrSignatureInvalid.
func VerifyProof(digest [32]byte, signer [20]byte, sig []byte) bool {
	return crypto.VerifySignature(digest, signer, sig)
}

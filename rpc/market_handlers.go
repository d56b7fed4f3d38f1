package rpc

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"tradewind/core/types"
	"tradewind/crypto"
	"tradewind/native/common"
	"tradewind/native/custody"
	"tradewind/native/market"
)

const (
	codeMarketInvalidParams = -32021
	codeMarketNotFound      = -32022
	codeMarketForbidden     = -32023
	codeMarketConflict      = -32024
	codeMarketInternal      = -32025
)

type itemTermsJSON struct {
	ChargeNonDispute            bool                 `json:"chargeNonDispute"`
	HasExternalItem             bool                 `json:"hasExternalItem"`
	ItemData                    string               `json:"itemData,omitempty"`
	ExternalData                *market.ExternalData `json:"externalData,omitempty"`
	DisputeHandler              string               `json:"disputeHandler,omitempty"`
	DisputeHandlerFeeReceiver   string               `json:"disputeHandlerFeeReceiver,omitempty"`
	DisputeHandlerFeePercentage uint32               `json:"disputeHandlerFeePercentage"`
	DisputeHandlerProof         string               `json:"disputeHandlerProof,omitempty"`
}

type offerCreateParams struct {
	ID                  string        `json:"id"`
	Caller              string        `json:"caller"`
	Token               string        `json:"token,omitempty"`
	TotalAmount         string        `json:"totalAmount,omitempty"`
	AvailableAmount     string        `json:"availableAmount,omitempty"`
	MinAmount           string        `json:"minAmount,omitempty"`
	MaxAmount           string        `json:"maxAmount,omitempty"`
	OrderProcessingTime uint64        `json:"orderProcessingTime"`
	UseBalance          bool          `json:"useBalance,omitempty"`
	CoinValue           string        `json:"coinValue,omitempty"`
	Item                itemTermsJSON `json:"item"`
}

type offerStatusParams struct {
	ID     string `json:"id"`
	Caller string `json:"caller"`
	Status string `json:"status"`
}

type bidPlaceParams struct {
	ID               string        `json:"id"`
	OfferID          string        `json:"offerId"`
	Caller           string        `json:"caller"`
	Token            string        `json:"token,omitempty"`
	TokenAmount      string        `json:"tokenAmount,omitempty"`
	OfferTokenAmount string        `json:"offerTokenAmount,omitempty"`
	ProcessingTime   uint64        `json:"processingTime"`
	UseBalance       bool          `json:"useBalance,omitempty"`
	CoinValue        string        `json:"coinValue,omitempty"`
	Item             itemTermsJSON `json:"item"`
}

type idCallerParams struct {
	ID     string `json:"id"`
	Caller string `json:"caller"`
}

type idParams struct {
	ID string `json:"id"`
}

type withdrawParams struct {
	Caller string `json:"caller"`
	Token  string `json:"token"`
	Amount string `json:"amount"`
}

type balanceOfParams struct {
	Account string `json:"account"`
	Token   string `json:"token"`
}

type quoteFeesParams struct {
	Amount                      string `json:"amount"`
	DisputeHandlerFeePercentage uint32 `json:"disputeHandlerFeePercentage"`
}

type offerJSON struct {
	ID                  string        `json:"id"`
	Creator             string        `json:"creator"`
	Token               string        `json:"token,omitempty"`
	TotalAmount         string        `json:"totalAmount"`
	AvailableAmount     string        `json:"availableAmount"`
	MinAmount           string        `json:"minAmount"`
	MaxAmount           string        `json:"maxAmount"`
	OrderProcessingTime uint64        `json:"orderProcessingTime"`
	Status              string        `json:"status"`
	Item                itemTermsJSON `json:"item"`
}

type bidJSON struct {
	ID               string        `json:"id"`
	OfferID          string        `json:"offerId"`
	Creator          string        `json:"creator"`
	Token            string        `json:"token,omitempty"`
	TokenAmount      string        `json:"tokenAmount"`
	OfferTokenAmount string        `json:"offerTokenAmount"`
	ProcessingTime   uint64        `json:"processingTime"`
	Status           string        `json:"status"`
	Item             itemTermsJSON `json:"item"`
}

type balanceJSON struct {
	Account string `json:"account"`
	Token   string `json:"token"`
	Balance string `json:"balance"`
}

type feeQuoteJSON struct {
	ProtocolFee       string `json:"protocolFee"`
	DisputeHandlerFee string `json:"disputeHandlerFee"`
	Commission        string `json:"commission"`
	Net               string `json:"net"`
}

type eventJSON struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params offerCreateParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	offer, caller, useBalance, coinValue, err := buildOffer(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.CreateOffer(offer, caller, useBalance, coinValue); err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, idParams{ID: formatID(offer.ID)})
}

func (s *Server) handleUpdateOfferStatus(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params offerStatusParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	id, err := parseID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	status, err := parseStatus(params.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.UpdateOfferStatus(id, caller, status); err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, idParams{ID: formatID(id)})
}

func (s *Server) handlePlaceBid(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params bidPlaceParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	bid, caller, useBalance, coinValue, err := buildBid(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.PlaceBid(bid, caller, useBalance, coinValue); err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, idParams{ID: formatID(bid.ID)})
}

func (s *Server) handleCancelBid(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params idCallerParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	id, err := parseID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.CancelBid(id, caller); err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, idParams{ID: formatID(id)})
}

func (s *Server) handleAcceptBid(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params idCallerParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	id, err := parseID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.AcceptBid(id, caller); err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, idParams{ID: formatID(id)})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params withdrawParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	token, err := parseToken(params.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	amount, err := parsePositiveBigInt(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := s.engine.Withdraw(caller, token, amount); err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, balanceJSON{Account: params.Caller, Token: params.Token, Balance: amount.String()})
}

func (s *Server) handleGetOffer(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params idParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	id, err := parseID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	offer, err := s.engine.GetOffer(id)
	if err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatOfferJSON(offer))
}

func (s *Server) handleGetBid(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params idParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	id, err := parseID(params.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	bid, err := s.engine.GetBid(id)
	if err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, formatBidJSON(bid))
}

func (s *Server) handleBalanceOf(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params balanceOfParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	account, err := parseBech32Address(params.Account)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	token, err := parseToken(params.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	balance, err := s.engine.BalanceOf(account, token)
	if err != nil {
		writeMarketError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, balanceJSON{Account: params.Account, Token: params.Token, Balance: balance.String()})
}

func (s *Server) handleQuoteFees(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var params quoteFeesParams
	if !decodeSingleParam(w, req, &params) {
		return
	}
	amount, err := parsePositiveBigInt(params.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	cfg, err := s.manager.FeeConfig()
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeMarketInternal, "internal_error", err.Error())
		return
	}
	breakdown, err := cfg.Split(amount, params.DisputeHandlerFeePercentage)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return
	}
	writeResult(w, req.ID, feeQuoteJSON{
		ProtocolFee:       breakdown.ProtocolFee.String(),
		DisputeHandlerFee: breakdown.DisputeHandlerFee.String(),
		Commission:        breakdown.Commission.String(),
		Net:               breakdown.Net.String(),
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	recorded := s.recorder.Events()
	out := make([]eventJSON, 0, len(recorded))
	for _, evt := range recorded {
		payload, ok := evt.(interface{ Event() *types.Event })
		if !ok || payload.Event() == nil {
			continue
		}
		out = append(out, eventJSON{Type: payload.Event().Type, Attributes: payload.Event().Attributes})
	}
	writeResult(w, req.ID, out)
}

// --- parsing and formatting helpers ---

func decodeSingleParam(w http.ResponseWriter, req *RPCRequest, target interface{}) bool {
	if len(req.Params) != 1 {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", "exactly one parameter object expected")
		return false
	}
	if err := json.Unmarshal(req.Params[0], target); err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeMarketInvalidParams, "invalid_params", err.Error())
		return false
	}
	return true
}

func buildOffer(params offerCreateParams) (*market.Offer, [20]byte, bool, *big.Int, error) {
	id, err := parseID(params.ID)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	token, err := parseToken(params.Token)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	total, err := parseAmount(params.TotalAmount)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	available, err := parseAmount(params.AvailableAmount)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	minAmount, err := parseAmount(params.MinAmount)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	maxAmount, err := parseAmount(params.MaxAmount)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	coinValue, err := parseAmount(params.CoinValue)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	item, err := parseItemTerms(params.Item)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	offer := &market.Offer{
		ID:                  id,
		Creator:             caller,
		Token:               token,
		TotalAmount:         total,
		AvailableAmount:     available,
		MinAmount:           minAmount,
		MaxAmount:           maxAmount,
		OrderProcessingTime: params.OrderProcessingTime,
		Status:              market.StatusActive,
		Item:                item,
	}
	return offer, caller, params.UseBalance, coinValue, nil
}

func buildBid(params bidPlaceParams) (*market.Bid, [20]byte, bool, *big.Int, error) {
	id, err := parseID(params.ID)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	offerID, err := parseID(params.OfferID)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	caller, err := parseBech32Address(params.Caller)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	token, err := parseToken(params.Token)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	tokenAmount, err := parseAmount(params.TokenAmount)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	offerTokenAmount, err := parseAmount(params.OfferTokenAmount)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	coinValue, err := parseAmount(params.CoinValue)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	item, err := parseItemTerms(params.Item)
	if err != nil {
		return nil, [20]byte{}, false, nil, err
	}
	bid := &market.Bid{
		ID:               id,
		OfferID:          offerID,
		Creator:          caller,
		Token:            token,
		TokenAmount:      tokenAmount,
		OfferTokenAmount: offerTokenAmount,
		ProcessingTime:   params.ProcessingTime,
		Status:           market.StatusActive,
		Item:             item,
	}
	return bid, caller, params.UseBalance, coinValue, nil
}

func parseItemTerms(params itemTermsJSON) (market.ItemTerms, error) {
	item := market.ItemTerms{
		ChargeNonDispute:     params.ChargeNonDispute,
		HasExternalItem:      params.HasExternalItem,
		DisputeHandlerFeeBps: params.DisputeHandlerFeePercentage,
	}
	if params.ExternalData != nil {
		encoded, err := market.EncodeExternalData(params.ExternalData)
		if err != nil {
			return market.ItemTerms{}, err
		}
		item.ItemData = encoded
	} else if strings.TrimSpace(params.ItemData) != "" {
		data, err := parseHexBytes(params.ItemData)
		if err != nil {
			return market.ItemTerms{}, fmt.Errorf("invalid itemData: %w", err)
		}
		item.ItemData = data
	}
	if strings.TrimSpace(params.DisputeHandler) != "" {
		handler, err := parseBech32Address(params.DisputeHandler)
		if err != nil {
			return market.ItemTerms{}, fmt.Errorf("invalid disputeHandler: %w", err)
		}
		item.DisputeHandler = handler
	}
	if strings.TrimSpace(params.DisputeHandlerFeeReceiver) != "" {
		receiver, err := parseBech32Address(params.DisputeHandlerFeeReceiver)
		if err != nil {
			return market.ItemTerms{}, fmt.Errorf("invalid disputeHandlerFeeReceiver: %w", err)
		}
		item.DisputeHandlerFeeReceiver = receiver
	}
	if strings.TrimSpace(params.DisputeHandlerProof) != "" {
		proof, err := parseHexBytes(params.DisputeHandlerProof)
		if err != nil {
			return market.ItemTerms{}, fmt.Errorf("invalid disputeHandlerProof: %w", err)
		}
		item.DisputeHandlerProof = proof
	}
	return item, nil
}

func parseBech32Address(addr string) ([20]byte, error) {
	trimmed := strings.TrimSpace(addr)
	if trimmed == "" {
		return [20]byte{}, fmt.Errorf("address required")
	}
	decoded, err := crypto.DecodeAddress(trimmed)
	if err != nil {
		return [20]byte{}, err
	}
	return decoded.RawAddress(), nil
}

// parseToken maps the asset reference: empty means "no fungible asset", the
// literal "coin" means the native currency, anything else is a 20-byte hex
// token address.
func parseToken(token string) ([20]byte, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return [20]byte{}, nil
	}
	if strings.EqualFold(trimmed, "coin") {
		return custody.CoinAddress, nil
	}
	raw, err := parseHexBytes(trimmed)
	if err != nil {
		return [20]byte{}, fmt.Errorf("invalid token: %w", err)
	}
	if len(raw) != 20 {
		return [20]byte{}, fmt.Errorf("token must be 20 bytes")
	}
	var out [20]byte
	copy(out[:], raw)
	return out, nil
}

func parseAmount(value string) (*big.Int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount")
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must be non-negative")
	}
	return amount, nil
}

func parsePositiveBigInt(value string) (*big.Int, error) {
	amount, err := parseAmount(value)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	return amount, nil
}

func parseHexBytes(value string) ([]byte, error) {
	cleaned := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(value), "0x"), "0X")
	if len(cleaned)%2 != 0 {
		return nil, fmt.Errorf("hex length must be even")
	}
	return hex.DecodeString(cleaned)
}

func parseID(id string) ([32]byte, error) {
	var out [32]byte
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return out, fmt.Errorf("id required")
	}
	cleaned := strings.TrimPrefix(strings.TrimPrefix(trimmed, "0x"), "0X")
	if len(cleaned) != 64 {
		return out, fmt.Errorf("id must be 32 bytes")
	}
	raw, err := hex.DecodeString(cleaned)
	if err != nil {
		return out, err
	}
	copy(out[:], raw)
	return out, nil
}

func parseStatus(status string) (market.Status, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active":
		return market.StatusActive, nil
	case "paused":
		return market.StatusPaused, nil
	case "canceled":
		return market.StatusCanceled, nil
	case "accepted":
		return market.StatusAccepted, nil
	default:
		return market.StatusUnset, fmt.Errorf("unknown status %q", status)
	}
}

func formatID(id [32]byte) string {
	return "0x" + hex.EncodeToString(id[:])
}

func formatAddress(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.TradePrefix, addr[:]).String()
}

func formatToken(token [20]byte) string {
	if token == ([20]byte{}) {
		return ""
	}
	if custody.IsCoin(token) {
		return "coin"
	}
	return "0x" + hex.EncodeToString(token[:])
}

func formatItemJSON(item market.ItemTerms) itemTermsJSON {
	out := itemTermsJSON{
		ChargeNonDispute:            item.ChargeNonDispute,
		HasExternalItem:             item.HasExternalItem,
		DisputeHandlerFeePercentage: item.DisputeHandlerFeeBps,
	}
	if len(item.ItemData) > 0 {
		out.ItemData = "0x" + hex.EncodeToString(item.ItemData)
	}
	if item.DisputeHandler != ([20]byte{}) {
		out.DisputeHandler = formatAddress(item.DisputeHandler)
	}
	if item.DisputeHandlerFeeReceiver != ([20]byte{}) {
		out.DisputeHandlerFeeReceiver = formatAddress(item.DisputeHandlerFeeReceiver)
	}
	if len(item.DisputeHandlerProof) > 0 {
		out.DisputeHandlerProof = "0x" + hex.EncodeToString(item.DisputeHandlerProof)
	}
	return out
}

func formatOfferJSON(offer *market.Offer) offerJSON {
	return offerJSON{
		ID:                  formatID(offer.ID),
		Creator:             formatAddress(offer.Creator),
		Token:               formatToken(offer.Token),
		TotalAmount:         offer.TotalAmount.String(),
		AvailableAmount:     offer.AvailableAmount.String(),
		MinAmount:           offer.MinAmount.String(),
		MaxAmount:           offer.MaxAmount.String(),
		OrderProcessingTime: offer.OrderProcessingTime,
		Status:              offer.Status.String(),
		Item:                formatItemJSON(offer.Item),
	}
}

func formatBidJSON(bid *market.Bid) bidJSON {
	return bidJSON{
		ID:               formatID(bid.ID),
		OfferID:          formatID(bid.OfferID),
		Creator:          formatAddress(bid.Creator),
		Token:            formatToken(bid.Token),
		TokenAmount:      bid.TokenAmount.String(),
		OfferTokenAmount: bid.OfferTokenAmount.String(),
		ProcessingTime:   bid.ProcessingTime,
		Status:           bid.Status.String(),
		Item:             formatItemJSON(bid.Item),
	}
}

func writeMarketError(w http.ResponseWriter, id interface{}, err error) {
	if err == nil {
		return
	}
	status := http.StatusInternalServerError
	code := codeMarketInternal
	message := "internal_error"
	data := err.Error()
	var stdErr market.StandardError
	switch {
	case errors.As(err, &stdErr):
		switch stdErr {
		case market.ErrOfferNotFound:
			status = http.StatusNotFound
			code = codeMarketNotFound
			message = "not_found"
		case market.ErrUnauthorized:
			status = http.StatusForbidden
			code = codeMarketForbidden
			message = "forbidden"
		default:
			status = http.StatusConflict
			code = codeMarketConflict
			message = "conflict"
		}
	case errors.Is(err, market.ErrBidNotFound):
		status = http.StatusNotFound
		code = codeMarketNotFound
		message = "not_found"
	case errors.Is(err, common.ErrModulePaused):
		status = http.StatusConflict
		code = codeMarketConflict
		message = "conflict"
	case errors.Is(err, common.ErrQuotaExceeded):
		status = http.StatusConflict
		code = codeMarketConflict
		message = "conflict"
	case errors.Is(err, custody.ErrInsufficientFunds):
		status = http.StatusConflict
		code = codeMarketConflict
		message = "conflict"
	}
	writeError(w, status, id, code, message, data)
}

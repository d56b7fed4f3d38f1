package rpc

import (
	"bytes"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"tradewind/core/events"
	"tradewind/crypto"
	"tradewind/native/custody"
	"tradewind/native/market"
	"tradewind/native/params"
	"tradewind/storage"
)

const testAuthToken = "test-secret"

type testNode struct {
	server  *Server
	engine  *market.Engine
	ledger  *custody.Ledger
	manager *params.Manager
	admin   [20]byte
}

func newTestNode(t *testing.T) *testNode {
	t.Helper()
	t.Setenv("TWD_RPC_TOKEN", testAuthToken)

	state := storage.NewState(storage.NewMemDB())
	var admin [20]byte
	copy(admin[:], bytes.Repeat([]byte{0xAD}, 20))
	var vault [20]byte
	copy(vault[:], bytes.Repeat([]byte{0xFD}, 20))

	if err := state.FeeConfigPut(params.FeeConfig{
		ProtocolFeeBps:                 50,
		DisputeHandlerFeeCommissionBps: 1000,
		MaxDisputeHandlerFeeBps:        500,
	}); err != nil {
		t.Fatalf("seed fees: %v", err)
	}

	recorder := events.NewRecorder()
	ledger := custody.NewLedger(vault)
	ledger.SetState(state)

	manager := params.NewManager(admin)
	manager.SetState(state)
	manager.SetEmitter(recorder)

	engine := market.NewEngine()
	engine.SetState(state)
	engine.SetCustody(ledger)
	engine.SetParams(manager)
	engine.SetPauses(manager)
	engine.SetEmitter(recorder)

	return &testNode{
		server:  NewServer(engine, manager, recorder),
		engine:  engine,
		ledger:  ledger,
		manager: manager,
		admin:   admin,
	}
}

func (n *testNode) call(t *testing.T, method string, payload interface{}, authed bool) RPCResponse {
	t.Helper()
	rawPayload, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	body, err := json.Marshal(RPCRequest{
		JSONRPC: jsonRPCVersion,
		Method:  method,
		Params:  []json.RawMessage{rawPayload},
		ID:      1,
	})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	if authed {
		req.Header.Set("Authorization", "Bearer "+testAuthToken)
	}
	rec := httptest.NewRecorder()
	n.server.handle(rec, req)

	var resp RPCResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (body %s)", err, rec.Body.String())
	}
	return resp
}

func testBech32(fill byte) string {
	raw := bytes.Repeat([]byte{fill}, 20)
	return crypto.MustNewAddress(crypto.TradePrefix, raw).String()
}

func rpcHandlerKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ethcrypto.HexToECDSA("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	if err != nil {
		t.Fatalf("derive key: %v", err)
	}
	return key
}

// rpcOfferParams builds a create-offer request with a freshly signed dispute
// handler proof so it passes engine validation end to end.
func rpcOfferParams(t *testing.T, creator string) offerCreateParams {
	t.Helper()
	key := rpcHandlerKey(t)
	handlerRaw := ethcrypto.PubkeyToAddress(key.PublicKey)
	handler := crypto.MustNewAddress(crypto.TradePrefix, handlerRaw[:]).String()

	create := offerCreateParams{
		ID:                  "0x" + hex.EncodeToString(bytes.Repeat([]byte{0x01}, 32)),
		Caller:              creator,
		Token:               "0x" + hex.EncodeToString(bytes.Repeat([]byte{0x11}, 20)),
		TotalAmount:         "10",
		AvailableAmount:     "10",
		MinAmount:           "1",
		MaxAmount:           "6",
		OrderProcessingTime: 3600,
		Item: itemTermsJSON{
			DisputeHandler:              handler,
			DisputeHandlerFeeReceiver:   testBech32(0x22),
			DisputeHandlerFeePercentage: 100,
		},
	}

	offer, _, _, _, err := buildOffer(create)
	if err != nil {
		t.Fatalf("build offer: %v", err)
	}
	digest, err := market.OfferDigest(offer)
	if err != nil {
		t.Fatalf("offer digest: %v", err)
	}
	sig, err := crypto.SignDigest(digest, key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	create.Item.DisputeHandlerProof = "0x" + hex.EncodeToString(sig)
	return create
}

func TestMutatingMethodsRequireAuth(t *testing.T) {
	node := newTestNode(t)
	resp := node.call(t, "market_createOffer", map[string]string{}, false)
	if resp.Error == nil || resp.Error.Code != codeUnauthorized {
		t.Fatalf("expected unauthorized error, got %+v", resp)
	}
}

func TestUnknownMethod(t *testing.T) {
	node := newTestNode(t)
	resp := node.call(t, "market_unknown", map[string]string{}, true)
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found, got %+v", resp)
	}
}

func TestCreateOfferAndQueryOverRPC(t *testing.T) {
	node := newTestNode(t)
	creator := testBech32(0xA1)
	create := rpcOfferParams(t, creator)

	creatorRaw, err := parseBech32Address(creator)
	if err != nil {
		t.Fatalf("decode creator: %v", err)
	}
	tokenRaw, err := parseToken(create.Token)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if err := node.ledger.Mint(tokenRaw, creatorRaw, big.NewInt(100)); err != nil {
		t.Fatalf("mint: %v", err)
	}

	resp := node.call(t, "market_createOffer", create, true)
	if resp.Error != nil {
		t.Fatalf("create offer failed: %+v", resp.Error)
	}

	getResp := node.call(t, "market_getOffer", idParams{ID: create.ID}, false)
	if getResp.Error != nil {
		t.Fatalf("get offer failed: %+v", getResp.Error)
	}
	raw, err := json.Marshal(getResp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var offer offerJSON
	if err := json.Unmarshal(raw, &offer); err != nil {
		t.Fatalf("unmarshal offer: %v", err)
	}
	if offer.Status != "active" || offer.AvailableAmount != "10" {
		t.Fatalf("unexpected offer: %+v", offer)
	}
	if offer.Creator != creator {
		t.Fatalf("unexpected creator: %s", offer.Creator)
	}

	balResp := node.call(t, "market_balanceOf", balanceOfParams{Account: creator, Token: create.Token}, false)
	if balResp.Error != nil {
		t.Fatalf("balanceOf failed: %+v", balResp.Error)
	}

	evResp := node.call(t, "market_events", idParams{ID: "ignored"}, false)
	if evResp.Error != nil {
		t.Fatalf("events failed: %+v", evResp.Error)
	}
	evRaw, err := json.Marshal(evResp.Result)
	if err != nil {
		t.Fatalf("marshal events: %v", err)
	}
	var recorded []eventJSON
	if err := json.Unmarshal(evRaw, &recorded); err != nil {
		t.Fatalf("unmarshal events: %v", err)
	}
	if len(recorded) != 1 || recorded[0].Type != "market.offer.created" {
		t.Fatalf("unexpected events: %+v", recorded)
	}
	if "0x"+recorded[0].Attributes["id"] != create.ID {
		t.Fatalf("unexpected event attributes: %+v", recorded[0].Attributes)
	}
}

func TestGetOfferNotFound(t *testing.T) {
	node := newTestNode(t)
	missing := idParams{ID: "0x" + hex.EncodeToString(bytes.Repeat([]byte{0x99}, 32))}
	resp := node.call(t, "market_getOffer", missing, false)
	if resp.Error == nil || resp.Error.Code != codeMarketNotFound {
		t.Fatalf("expected not found, got %+v", resp)
	}
}

func TestGetBidNotFound(t *testing.T) {
	node := newTestNode(t)
	missing := idParams{ID: "0x" + hex.EncodeToString(bytes.Repeat([]byte{0x98}, 32))}
	resp := node.call(t, "market_getBid", missing, false)
	if resp.Error == nil || resp.Error.Code != codeMarketNotFound {
		t.Fatalf("expected not found, got %+v", resp)
	}
}

func TestAdminSurfaceOverRPC(t *testing.T) {
	node := newTestNode(t)
	adminAddr := crypto.MustNewAddress(crypto.TradePrefix, node.admin[:]).String()

	resp := node.call(t, "admin_setProtocolFeePercentage", adminFeeParams{Caller: testBech32(0x01), Percentage: 10}, true)
	if resp.Error == nil || resp.Error.Code != codeAdminForbidden {
		t.Fatalf("stranger must be rejected, got %+v", resp)
	}

	resp = node.call(t, "admin_setProtocolFeePercentage", adminFeeParams{Caller: adminAddr, Percentage: 10}, true)
	if resp.Error != nil {
		t.Fatalf("admin update failed: %+v", resp.Error)
	}
	cfg, err := node.manager.FeeConfig()
	if err != nil {
		t.Fatalf("fee config: %v", err)
	}
	if cfg.ProtocolFeeBps != 10 {
		t.Fatalf("protocol fee not updated: %+v", cfg)
	}

	resp = node.call(t, "admin_setProtocolFeePercentage", adminFeeParams{Caller: adminAddr, Percentage: 10001}, true)
	if resp.Error == nil || resp.Error.Code != codeAdminInvalidParams {
		t.Fatalf("over-denominator percentage must be rejected, got %+v", resp)
	}

	resp = node.call(t, "admin_pause", adminPauseParams{Caller: adminAddr}, true)
	if resp.Error != nil {
		t.Fatalf("pause failed: %+v", resp.Error)
	}
	creator := testBech32(0xA1)
	createResp := node.call(t, "market_createOffer", rpcOfferParams(t, creator), true)
	if createResp.Error == nil || createResp.Error.Code != codeMarketConflict {
		t.Fatalf("paused engine must reject creations, got %+v", createResp)
	}

	resp = node.call(t, "admin_unpause", adminPauseParams{Caller: adminAddr}, true)
	if resp.Error != nil {
		t.Fatalf("unpause failed: %+v", resp.Error)
	}
}

func TestQuoteFeesOverRPC(t *testing.T) {
	node := newTestNode(t)
	quoteReq := quoteFeesParams{Amount: "10000", DisputeHandlerFeePercentage: 200}
	resp := node.call(t, "market_quoteFees", quoteReq, false)
	if resp.Error != nil {
		t.Fatalf("quote fees failed: %+v", resp.Error)
	}
	raw, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var quote feeQuoteJSON
	if err := json.Unmarshal(raw, &quote); err != nil {
		t.Fatalf("unmarshal quote: %v", err)
	}
	if quote.ProtocolFee != "50" || quote.DisputeHandlerFee != "200" || quote.Commission != "20" || quote.Net != "9750" {
		t.Fatalf("unexpected quote: %+v", quote)
	}
}

package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"tradewind/core/events"
	"tradewind/native/market"
	"tradewind/native/params"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeUnauthorized   = -32001
	codeServerError    = -32000
)

// Server exposes the market engine and the admin parameter surface over
// JSON-RPC. State-mutating methods are serialized through a single mutex so
// the engine observes one writer at a time.
type Server struct {
	engine   *market.Engine
	manager  *params.Manager
	recorder *events.Recorder

	mu        sync.Mutex
	authToken string
}

// NewServer creates an RPC server around the supplied collaborators. The
// bearer token guarding mutating methods is read from TWD_RPC_TOKEN.
func NewServer(engine *market.Engine, manager *params.Manager, recorder *events.Recorder) *Server {
	token := strings.TrimSpace(os.Getenv("TWD_RPC_TOKEN"))
	return &Server{
		engine:    engine,
		manager:   manager,
		recorder:  recorder,
		authToken: token,
	}
}

func (s *Server) Start(addr string) error {
	fmt.Printf("Starting JSON-RPC server on %s\n", addr)
	http.HandleFunc("/", s.handle)
	return http.ListenAndServe(addr, nil)
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// handle is the main request handler that routes to specific handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	switch req.Method {
	case "market_createOffer":
		s.mutating(w, r, req, s.handleCreateOffer)
	case "market_updateOfferStatus":
		s.mutating(w, r, req, s.handleUpdateOfferStatus)
	case "market_placeBid":
		s.mutating(w, r, req, s.handlePlaceBid)
	case "market_cancelBid":
		s.mutating(w, r, req, s.handleCancelBid)
	case "market_acceptBid":
		s.mutating(w, r, req, s.handleAcceptBid)
	case "market_withdraw":
		s.mutating(w, r, req, s.handleWithdraw)
	case "market_getOffer":
		s.handleGetOffer(w, r, req)
	case "market_getBid":
		s.handleGetBid(w, r, req)
	case "market_balanceOf":
		s.handleBalanceOf(w, r, req)
	case "market_quoteFees":
		s.handleQuoteFees(w, r, req)
	case "market_events":
		s.handleEvents(w, r, req)
	case "admin_setProtocolFeePercentage":
		s.mutating(w, r, req, s.handleSetProtocolFeePercentage)
	case "admin_setDisputeHandlerFeePercentageCommission":
		s.mutating(w, r, req, s.handleSetDisputeHandlerFeePercentageCommission)
	case "admin_setMaxDisputeHandlerFeePercentage":
		s.mutating(w, r, req, s.handleSetMaxDisputeHandlerFeePercentage)
	case "admin_setTokenBlacklisted":
		s.mutating(w, r, req, s.handleSetTokenBlacklisted)
	case "admin_pause":
		s.mutating(w, r, req, s.handlePause)
	case "admin_unpause":
		s.mutating(w, r, req, s.handleUnpause)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method '%s' not found", req.Method), nil)
	}
}

type handlerFunc func(w http.ResponseWriter, r *http.Request, req *RPCRequest)

// mutating enforces bearer auth and serializes the handler behind the writer
// mutex.
func (s *Server) mutating(w http.ResponseWriter, r *http.Request, req *RPCRequest, h handlerFunc) {
	if authErr := s.requireAuth(r); authErr != nil {
		writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	h(w, r, req)
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}

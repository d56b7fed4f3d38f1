package rpc

import (
	"errors"
	"net/http"

	"tradewind/native/params"
)

const (
	codeAdminInvalidParams = -32031
	codeAdminForbidden     = -32032
	codeAdminInternal      = -32033
)

type adminFeeParams struct {
	Caller     string `json:"caller"`
	Percentage uint32 `json:"percentage"`
}

type adminBlacklistParams struct {
	Caller      string `json:"caller"`
	Token       string `json:"token"`
	Blacklisted bool   `json:"blacklisted"`
}

type adminPauseParams struct {
	Caller string `json:"caller"`
}

type adminAckResult struct {
	OK bool `json:"ok"`
}

func (s *Server) handleSetProtocolFeePercentage(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	s.adminFeeUpdate(w, req, s.manager.SetProtocolFeePercentage)
}

func (s *Server) handleSetDisputeHandlerFeePercentageCommission(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	s.adminFeeUpdate(w, req, s.manager.SetDisputeHandlerFeePercentageCommission)
}

func (s *Server) handleSetMaxDisputeHandlerFeePercentage(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	s.adminFeeUpdate(w, req, s.manager.SetMaxDisputeHandlerFeePercentage)
}

func (s *Server) adminFeeUpdate(w http.ResponseWriter, req *RPCRequest, update func([20]byte, uint32) error) {
	var p adminFeeParams
	if !decodeSingleParam(w, req, &p) {
		return
	}
	caller, err := parseBech32Address(p.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeAdminInvalidParams, "invalid_params", err.Error())
		return
	}
	if p.Percentage > params.BpsDenominator {
		writeError(w, http.StatusBadRequest, req.ID, codeAdminInvalidParams, "invalid_params", "percentage must be <= 10000 basis points")
		return
	}
	if err := update(caller, p.Percentage); err != nil {
		writeAdminError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, adminAckResult{OK: true})
}

func (s *Server) handleSetTokenBlacklisted(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	var p adminBlacklistParams
	if !decodeSingleParam(w, req, &p) {
		return
	}
	caller, err := parseBech32Address(p.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeAdminInvalidParams, "invalid_params", err.Error())
		return
	}
	token, err := parseToken(p.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeAdminInvalidParams, "invalid_params", err.Error())
		return
	}
	if token == ([20]byte{}) {
		writeError(w, http.StatusBadRequest, req.ID, codeAdminInvalidParams, "invalid_params", "token required")
		return
	}
	if err := s.manager.SetTokenBlacklisted(caller, token, p.Blacklisted); err != nil {
		writeAdminError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, adminAckResult{OK: true})
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	s.adminPauseUpdate(w, req, s.manager.Pause)
}

func (s *Server) handleUnpause(w http.ResponseWriter, r *http.Request, req *RPCRequest) {
	s.adminPauseUpdate(w, req, s.manager.Unpause)
}

func (s *Server) adminPauseUpdate(w http.ResponseWriter, req *RPCRequest, update func([20]byte) error) {
	var p adminPauseParams
	if !decodeSingleParam(w, req, &p) {
		return
	}
	caller, err := parseBech32Address(p.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeAdminInvalidParams, "invalid_params", err.Error())
		return
	}
	if err := update(caller); err != nil {
		writeAdminError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, adminAckResult{OK: true})
}

func writeAdminError(w http.ResponseWriter, id interface{}, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, params.ErrUnauthorized) {
		writeError(w, http.StatusForbidden, id, codeAdminForbidden, "forbidden", err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, id, codeAdminInternal, "internal_error", err.Error())
}

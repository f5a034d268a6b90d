package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/constants"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/domain"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/middleware"
	"github.com/Eyy-EyyRon/pokemon-battle-app-sub001/internal/service"

	"github.com/rs/zerolog"
)

type BattleServer struct {
	inviteSvc *service.InviteService
	battleSvc *service.BattleService
}

func NewBattleServer(inviteSvc *service.InviteService, battleSvc *service.BattleService) *BattleServer {
	return &BattleServer{inviteSvc: inviteSvc, battleSvc: battleSvc}
}

func (s *BattleServer) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.Health)
	mux.HandleFunc("POST /api/invites", s.CreateInvite)
	mux.HandleFunc("GET /api/invites/{code}", s.ValidateInvite)
	mux.HandleFunc("PUT /api/invites/{code}/status", s.UpdateInviteStatus)
	mux.HandleFunc("POST /api/battles", s.SaveBattle)
	mux.HandleFunc("GET /api/battles", s.ListBattles)
	return mux
}

type inviteResponse struct {
	Code  string `json:"code"`
	Valid bool   `json:"valid"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type updateStatusResponse struct {
	Updated bool `json:"updated"`
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *BattleServer) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *BattleServer) CreateInvite(w http.ResponseWriter, r *http.Request) {
	code, err := s.inviteSvc.Generate(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]string{"code": code})
}

func (s *BattleServer) ValidateInvite(w http.ResponseWriter, r *http.Request) {
	code := domain.NormalizeInviteCode(r.PathValue("code"))
	writeJSON(w, r, http.StatusOK, inviteResponse{
		Code:  code,
		Valid: s.inviteSvc.Validate(r.Context(), code),
	})
}

func (s *BattleServer) UpdateInviteStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	status, err := domain.ParseInviteStatus(req.Status)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	code := domain.NormalizeInviteCode(r.PathValue("code"))
	writeJSON(w, r, http.StatusOK, updateStatusResponse{
		Updated: s.inviteSvc.UpdateStatus(r.Context(), code, status),
	})
}

func (s *BattleServer) SaveBattle(w http.ResponseWriter, r *http.Request) {
	var result domain.BattleResult
	if err := decodeBody(r, &result); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	saved, err := s.battleSvc.SaveBattleResult(r.Context(), result)
	if errors.Is(err, domain.ErrMalformedRecord) {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, saved)
}

func (s *BattleServer) ListBattles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.battleSvc.GetBattleHistory(r.Context()))
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, constants.MaxRequestBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, domain.ErrMalformedRecord) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	zerolog.Ctx(r.Context()).Warn().Err(err).Int("status", status).Msg("request failed")
	writeJSON(w, r, status, errorResponse{
		Error:     err.Error(),
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

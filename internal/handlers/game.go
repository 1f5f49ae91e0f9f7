// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/parlorgames/cluedo/internal/auth"
	"github.com/parlorgames/cluedo/internal/game"
	"github.com/parlorgames/cluedo/internal/models"
)

// ServeHTTP routes /games requests. WebSocket upgrades live under
// /games/ws/{id} and are wired separately, see game_ws.go.
func (gs *GameServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/games")
	path = strings.Trim(path, "/")

	if path == "" {
		if r.Method == http.MethodPost {
			gs.handleCreateSession(w, r)
			return
		}
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(path, "/")
	sessionID := strings.ToUpper(parts[0])
	rest := ""
	if len(parts) > 1 {
		rest = parts[1]
	}

	switch {
	case rest == "" && r.Method == http.MethodGet:
		gs.handleGetSession(w, r, sessionID)
	case rest == "join" && r.Method == http.MethodPost:
		gs.handleJoin(w, r, sessionID)
	case rest == "start" && r.Method == http.MethodPost:
		gs.handleStart(w, r, sessionID)
	case rest == "action" && r.Method == http.MethodPost:
		gs.handleAction(w, r, sessionID)
	case rest == "me" && r.Method == http.MethodGet:
		gs.handleMe(w, r, sessionID)
	case rest == "log" && r.Method == http.MethodGet:
		gs.handleLog(w, r, sessionID)
	case rest == "chat" && r.Method == http.MethodGet:
		gs.handleGetChat(w, r, sessionID)
	case rest == "chat" && r.Method == http.MethodPost:
		gs.handlePostChat(w, r, sessionID)
	default:
		http.Error(w, "unsupported route", http.StatusNotFound)
	}
}

type createSessionRequest struct {
	Passcode string `json:"passcode,omitempty"`
}

func (gs *GameServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
	}

	passcodeHash := ""
	if req.Passcode != "" {
		var err error
		passcodeHash, err = auth.HashPasscode(req.Passcode, auth.Params)
		if err != nil {
			gs.Logger.Errorf("hash passcode: %v", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	s, err := gs.Engine.CreateSession(r.Context(), passcodeHash)
	if err != nil {
		gs.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        s.ID,
		"status":    s.Status,
		"protected": passcodeHash != "",
	})
}

func (gs *GameServer) handleGetSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	state, err := gs.Engine.PublicSnapshot(r.Context(), sessionID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

type joinRequest struct {
	Name     string `json:"name"`
	Kind     string `json:"kind,omitempty"`
	Passcode string `json:"passcode,omitempty"`
}

func (gs *GameServer) handleJoin(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	hash, err := gs.Engine.Passcode(r.Context(), sessionID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	if hash != "" {
		ok, err := auth.VerifyPasscode(req.Passcode, hash)
		if err != nil || !ok {
			http.Error(w, "invalid passcode", http.StatusForbidden)
			return
		}
	}

	p, res, err := gs.Engine.Join(r.Context(), sessionID, req.Name, req.Kind)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	gs.Notifier.Deliver(sessionID, res.Events)

	token, err := auth.CreateSeatToken(p.ID.String(), sessionID)
	if err != nil {
		gs.Logger.Errorf("create seat token: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "seat_token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusCreated, map[string]any{
		"participant": p,
		"token":       token,
		"state":       res.State,
	})
}

func (gs *GameServer) handleStart(w http.ResponseWriter, r *http.Request, sessionID string) {
	pid, ok := gs.authenticateSeat(w, r, sessionID)
	if !ok {
		return
	}

	res, err := gs.Engine.Start(r.Context(), sessionID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	gs.Notifier.Deliver(sessionID, res.Events)

	writeJSON(w, http.StatusOK, map[string]any{
		"state": res.State,
		"you":   res.Private[pid],
	})
}

func (gs *GameServer) handleAction(w http.ResponseWriter, r *http.Request, sessionID string) {
	pid, ok := gs.authenticateSeat(w, r, sessionID)
	if !ok {
		return
	}

	var a models.Action
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	res, err := gs.dispatch(r.Context(), sessionID, pid, a)
	if err != nil {
		gs.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"state": res.State,
		"you":   res.Private[pid],
	})
}

func (gs *GameServer) handleMe(w http.ResponseWriter, r *http.Request, sessionID string) {
	pid, ok := gs.authenticateSeat(w, r, sessionID)
	if !ok {
		return
	}
	state, priv, err := gs.Engine.PlayerSnapshot(r.Context(), sessionID, pid)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state": state,
		"you":   priv,
	})
}

func (gs *GameServer) handleLog(w http.ResponseWriter, r *http.Request, sessionID string) {
	entries, err := gs.Engine.Log(r.Context(), sessionID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"log": entries})
}

func (gs *GameServer) handleGetChat(w http.ResponseWriter, r *http.Request, sessionID string) {
	msgs, err := gs.Engine.Chat(r.Context(), sessionID)
	if err != nil {
		gs.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chat": msgs})
}

type chatRequest struct {
	Text string `json:"text"`
}

func (gs *GameServer) handlePostChat(w http.ResponseWriter, r *http.Request, sessionID string) {
	pid, ok := gs.authenticateSeat(w, r, sessionID)
	if !ok {
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	msg := models.ChatMessage{Participant: &pid, Text: req.Text}
	if err := gs.Engine.AppendChat(r.Context(), sessionID, msg); err != nil {
		gs.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authenticateSeat resolves the caller's participant id from their seat
// token and rejects tokens issued for another session.
func (gs *GameServer) authenticateSeat(w http.ResponseWriter, r *http.Request, sessionID string) (uuid.UUID, bool) {
	token := seatTokenFromRequest(r)
	if token == "" {
		http.Error(w, "missing seat token", http.StatusUnauthorized)
		return uuid.Nil, false
	}
	pidStr, sid, err := auth.AuthenticateSeatToken(token)
	if err != nil {
		http.Error(w, "invalid seat token", http.StatusForbidden)
		return uuid.Nil, false
	}
	if sid != sessionID {
		http.Error(w, "token was issued for a different session", http.StatusForbidden)
		return uuid.Nil, false
	}
	pid, err := uuid.Parse(pidStr)
	if err != nil {
		http.Error(w, "invalid seat token", http.StatusForbidden)
		return uuid.Nil, false
	}
	return pid, true
}

// writeError maps engine rejections to HTTP responses with stable codes.
func (gs *GameServer) writeError(w http.ResponseWriter, err error) {
	var de *game.DomainError
	if !errors.As(err, &de) {
		gs.Logger.Errorf("internal error: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	status := http.StatusConflict
	switch de.Code {
	case game.CodeSessionNotFound:
		status = http.StatusNotFound
	case game.CodeNoSuchParticipant:
		status = http.StatusForbidden
	case game.CodeInvalidAction:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]any{
		"error":   de.Code,
		"message": de.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

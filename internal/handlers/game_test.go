// internal/handlers/game_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parlorgames/cluedo/internal/auth"
	"github.com/parlorgames/cluedo/internal/game"
	"github.com/parlorgames/cluedo/internal/store"
)

func newTestServer(t *testing.T, seed int64) (*httptest.Server, *GameServer) {
	t.Helper()
	auth.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine := game.New(store.NewMemoryStore(), game.WithRand(rand.New(rand.NewSource(seed))))
	gs := NewGameServer(engine, logger)

	srv := httptest.NewServer(gs)
	t.Cleanup(srv.Close)
	return srv, gs
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// createAndJoin seats n participants and returns the session id plus their
// seat tokens.
func createAndJoin(t *testing.T, srv *httptest.Server, n int) (string, []string) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/games", "", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)

	tokens := make([]string, 0, n)
	for i := 0; i < n; i++ {
		resp, body = doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/join", "", map[string]string{
			"name": fmt.Sprintf("player-%d", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		tokens = append(tokens, body["token"].(string))
	}
	return id, tokens
}

func TestCreateJoinStartFlow(t *testing.T) {
	srv, _ := newTestServer(t, 1)
	id, tokens := createAndJoin(t, srv, 3)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/start", tokens[0], nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	you := body["you"].(map[string]any)
	assert.NotEmpty(t, you["yourCards"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/games/"+id, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "playing", body["status"])
	assert.Equal(t, "awaiting_move", body["phase"])
	assert.Nil(t, body["solution"])

	// Seat 0 moves toward a room, then yields the turn.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/action", tokens[0], map[string]string{
		"type": "move", "toward": "Kitchen",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := body["state"].(map[string]any)
	assert.Equal(t, "after_move", state["phase"])

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/action", tokens[0], map[string]string{
		"type": "end_turn",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDomainErrorsMapToStatusCodes(t *testing.T) {
	srv, _ := newTestServer(t, 2)
	id, tokens := createAndJoin(t, srv, 2)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/start", tokens[0], nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Acting out of turn.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/action", tokens[1], map[string]string{
		"type": "move", "toward": "Kitchen",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "not_your_turn", body["error"])

	// Accusing before moving.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/action", tokens[0], map[string]string{
		"type": "accuse", "suspect": "Miss Scarlett", "weapon": "Knife", "room": "Hall",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "wrong_phase", body["error"])

	// Unknown session.
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/games/ZZZZZZ", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "session_not_found", body["error"])

	// Malformed action payload.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/action", tokens[0], map[string]string{
		"type": "move",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_action", body["error"])
}

func TestJoinRequiresPasscodeWhenSet(t *testing.T) {
	srv, _ := newTestServer(t, 3)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/games", "", map[string]string{"passcode": "hunter2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["protected"])
	id := body["id"].(string)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/join", "", map[string]string{"name": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/join", "", map[string]string{
		"name": "x", "passcode": "wrong",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/join", "", map[string]string{
		"name": "x", "passcode": "hunter2",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSeatTokenScopedToSession(t *testing.T) {
	srv, _ := newTestServer(t, 4)
	idA, tokensA := createAndJoin(t, srv, 2)
	idB, _ := createAndJoin(t, srv, 2)
	require.NotEqual(t, idA, idB)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/games/"+idB+"/start", tokensA[0], nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/games/"+idA+"/start", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPrivateSnapshotEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, 5)
	id, tokens := createAndJoin(t, srv, 2)
	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/start", tokens[0], nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/games/"+id+"/me", tokens[1], nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	you := body["you"].(map[string]any)
	assert.NotEmpty(t, you["yourCards"])
	assert.Contains(t, you["availableActions"], "chat")

	state := body["state"].(map[string]any)
	assert.Nil(t, state["solution"])
}

func TestChatAndLogEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, 6)
	id, tokens := createAndJoin(t, srv, 2)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/games/"+id+"/chat", tokens[0], map[string]string{
		"text": "anyone suspect the butler?",
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/games/"+id+"/chat", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	msgs := body["chat"].([]any)
	require.Len(t, msgs, 1)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/games/"+id+"/log", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := body["log"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, "participant_joined", first["type"])
}

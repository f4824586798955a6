package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

const testDrawingData = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8/x8AAwMBAp4pWZkAAAAASUVORK5CYII="

func createLobby(t *testing.T, ts *httptest.Server, name string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/telestrations/lobby", map[string]string{"name": name})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["id"].(string)
}

func togglePlayers(t *testing.T, ts *httptest.Server, lobbyID string, ids ...string) map[string]any {
	t.Helper()
	players := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		players = append(players, map[string]string{"id": id, "name": "Player " + id})
	}
	resp := doRequest(t, ts, http.MethodPut, "/api/telestrations/lobby/"+lobbyID+"/players", players)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func startLobby(t *testing.T, ts *httptest.Server, lobbyID string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/telestrations/lobby/"+lobbyID+"/start", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func playerPath(lobbyID, playerID string) string {
	return "/api/telestrations/lobby/" + lobbyID + "/players/" + playerID
}

func setWord(t *testing.T, ts *httptest.Server, lobbyID, playerID, word string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, playerPath(lobbyID, playerID)+"/word", map[string]string{"word": word})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set word for %s: expected status %d, got %d", playerID, http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func submitDrawing(t *testing.T, ts *httptest.Server, lobbyID, playerID string, round int, drawing string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, playerPath(lobbyID, playerID)+"/round/"+strconv.Itoa(round)+"/drawing", map[string]string{"drawing": drawing})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit drawing for %s: expected status %d, got %d", playerID, http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func submitGuess(t *testing.T, ts *httptest.Server, lobbyID, playerID string, round int, guess string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, playerPath(lobbyID, playerID)+"/round/"+strconv.Itoa(round)+"/guess", map[string]string{"guess": guess})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit guess for %s: expected status %d, got %d", playerID, http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func fetchRound(t *testing.T, ts *httptest.Server, lobbyID, playerID string, round int) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/telestrations/lobby/"+lobbyID+"/round/"+strconv.Itoa(round)+"?playerId="+playerID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("fetch round: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func fetchLobby(t *testing.T, ts *httptest.Server, lobbyID string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodGet, "/api/telestrations/lobby/"+lobbyID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func doRawRequest(t *testing.T, ts *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func decodeList(t *testing.T, resp *http.Response) []map[string]any {
	t.Helper()
	var payload []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

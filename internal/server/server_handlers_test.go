package server

import (
	"net/http"
	"strings"
	"testing"

	"telestrations/internal/config"
	"telestrations/internal/store"
)

func TestUnknownLobbyReturnsNotFound(t *testing.T) {
	ts := newOrderedServer(t, config.Default())

	paths := []string{
		"/api/telestrations/lobby/missing",
		"/api/telestrations/lobby/missing/chain",
		"/api/telestrations/lobby/missing/round/1?playerId=A",
		playerPath("missing", "A") + "/word",
		playerPath("missing", "A") + "/results",
	}
	for _, path := range paths {
		resp := doRequest(t, ts, http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s: expected status %d, got %d", path, http.StatusNotFound, resp.StatusCode)
		}
	}
	resp := doRequest(t, ts, http.MethodPost, "/api/telestrations/lobby/missing/start", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestStartGameStatuses(t *testing.T) {
	ts := newOrderedServer(t, config.Default())
	lobbyID := createLobby(t, ts, "")

	resp := doRequest(t, ts, http.MethodPost, "/api/telestrations/lobby/"+lobbyID+"/start", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d for empty lobby, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	togglePlayers(t, ts, lobbyID, "A", "B")
	startLobby(t, ts, lobbyID)

	resp = doRequest(t, ts, http.MethodPost, "/api/telestrations/lobby/"+lobbyID+"/start", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for second start, got %d", http.StatusConflict, resp.StatusCode)
	}
	resp = doRequest(t, ts, http.MethodPut, "/api/telestrations/lobby/"+lobbyID+"/players", []map[string]string{{"id": "C"}})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d for membership change, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestChainBeforeStartConflicts(t *testing.T) {
	ts := newOrderedServer(t, config.Default())
	lobbyID := createLobby(t, ts, "")
	togglePlayers(t, ts, lobbyID, "A")

	resp := doRequest(t, ts, http.MethodGet, "/api/telestrations/lobby/"+lobbyID+"/chain", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestSubmissionValidation(t *testing.T) {
	ts := newOrderedServer(t, config.Default())
	lobbyID := createLobby(t, ts, "")
	togglePlayers(t, ts, lobbyID, "A", "B")
	startLobby(t, ts, lobbyID)

	cases := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"empty word", playerPath(lobbyID, "A") + "/word", `{"word":"   "}`, http.StatusBadRequest},
		{"missing word", playerPath(lobbyID, "A") + "/word", `{}`, http.StatusBadRequest},
		{"unsafe word", playerPath(lobbyID, "A") + "/word", `{"word":"<script>"}`, http.StatusBadRequest},
		{"long word", playerPath(lobbyID, "A") + "/word", `{"word":"` + strings.Repeat("a", 61) + `"}`, http.StatusBadRequest},
		{"malformed json", playerPath(lobbyID, "A") + "/word", `{"word":`, http.StatusBadRequest},
		{"drawing not an image", playerPath(lobbyID, "A") + "/round/2/drawing", `{"drawing":"hello"}`, http.StatusBadRequest},
		{"round zero", playerPath(lobbyID, "A") + "/round/0/guess", `{"guess":"cat"}`, http.StatusNotFound},
		{"drawing for a word round", playerPath(lobbyID, "A") + "/round/1/drawing", `{"drawing":"` + testDrawingData + `"}`, http.StatusBadRequest},
		{"future round", playerPath(lobbyID, "A") + "/round/2/drawing", `{"drawing":"` + testDrawingData + `"}`, http.StatusNotFound},
		{"unknown player", playerPath(lobbyID, "Z") + "/word", `{"word":"cat"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRawRequest(t, ts, http.MethodPost, tc.path, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.StatusCode)
			}
			body := decodeBody(t, resp)
			if _, ok := body["error"].(string); !ok {
				t.Fatalf("expected error message, got %v", body)
			}
		})
	}
}

func TestDrawingSizeLimit(t *testing.T) {
	cfg := config.Default()
	cfg.MaxDrawingBytes = 64
	ts := newOrderedServer(t, cfg)
	lobbyID := createLobby(t, ts, "")
	togglePlayers(t, ts, lobbyID, "A", "B")
	startLobby(t, ts, lobbyID)
	setWord(t, ts, lobbyID, "A", "cat")
	setWord(t, ts, lobbyID, "B", "dog")

	big := "data:image/png;base64," + strings.Repeat("A", 200)
	resp := doRequest(t, ts, http.MethodPost, playerPath(lobbyID, "A")+"/round/2/drawing", map[string]string{"drawing": big})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	huge := "data:image/png;base64," + strings.Repeat("A", 4096)
	resp = doRequest(t, ts, http.MethodPost, playerPath(lobbyID, "A")+"/round/2/drawing", map[string]string{"drawing": huge})
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, resp.StatusCode)
	}
	submitDrawing(t, ts, lobbyID, "A", 2, drawingOf("A"))
}

func TestStaleRoundSubmission(t *testing.T) {
	ts := newOrderedServer(t, config.Default())
	lobbyID := createLobby(t, ts, "")
	togglePlayers(t, ts, lobbyID, "A", "B")
	startLobby(t, ts, lobbyID)
	setWord(t, ts, lobbyID, "A", "cat")
	setWord(t, ts, lobbyID, "B", "dog")

	// Resending the same word is a no-op.
	res := setWord(t, ts, lobbyID, "A", "cat")
	if res["unchanged"] != true {
		t.Fatalf("expected unchanged resubmission, got %v", res)
	}

	resp := doRequest(t, ts, http.MethodPost, playerPath(lobbyID, "A")+"/word", map[string]string{"word": "horse"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestLenientRoundsAcceptLateEdits(t *testing.T) {
	cfg := config.Default()
	cfg.StrictRounds = false
	ts := newOrderedServer(t, cfg)
	lobbyID := createLobby(t, ts, "")
	togglePlayers(t, ts, lobbyID, "A", "B")
	startLobby(t, ts, lobbyID)
	setWord(t, ts, lobbyID, "A", "cat")
	setWord(t, ts, lobbyID, "B", "dog")

	setWord(t, ts, lobbyID, "A", "horse")
	round := fetchRound(t, ts, lobbyID, "B", 2)
	if round["word"] != "cat" {
		t.Fatalf("expected the opened round to keep its prompt, got %v", round["word"])
	}
}

func TestRateLimitSubmissions(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimitPerSecond = 0.001
	cfg.RateLimitBurst = 2
	ts := newOrderedServer(t, cfg)

	createLobby(t, ts, "one")
	createLobby(t, ts, "two")
	resp := doRequest(t, ts, http.MethodPost, "/api/telestrations/lobby", map[string]string{"name": "three"})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, resp.StatusCode)
	}
}

func TestWordSuggestions(t *testing.T) {
	cfg := config.Default()
	cfg.WordSuggestionLimit = 3
	srv := New(store.NewMemory(), newStaticWords([]string{"cat", "dog", "sun", "moon", "star"}), cfg)
	ts := newTestServer(t, srv.Handler())
	t.Cleanup(ts.Close)

	resp := doRequest(t, ts, http.MethodGet, "/api/words/suggestions?count=50", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	words := decodeBody(t, resp)["words"].([]any)
	if len(words) != 3 {
		t.Fatalf("expected suggestions capped at 3, got %d", len(words))
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/words/suggestions?count=-1", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}
}

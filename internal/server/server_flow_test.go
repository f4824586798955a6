package server

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"telestrations/internal/config"
)

func drawingOf(id string) string {
	return "data:image/png;base64,drawn-by-" + id
}

func TestFullGameFlow(t *testing.T) {
	ts := newOrderedServer(t, config.Default())

	lobbyID := createLobby(t, ts, "Friday night")
	togglePlayers(t, ts, lobbyID, "A", "B", "C")
	lobby := startLobby(t, ts, lobbyID)
	if lobby["status"] != "InProgress" {
		t.Fatalf("expected InProgress, got %v", lobby["status"])
	}
	if lobby["totalRounds"].(float64) != 3 || lobby["currentRound"].(float64) != 1 {
		t.Fatalf("unexpected rounds: %v/%v", lobby["currentRound"], lobby["totalRounds"])
	}

	setWord(t, ts, lobbyID, "A", "cat")
	setWord(t, ts, lobbyID, "B", "dog")
	res := setWord(t, ts, lobbyID, "C", "sun")
	if res["advanced"] != true {
		t.Fatalf("expected round to advance after last word, got %v", res)
	}

	wantWords := map[string]string{"A": "sun", "B": "cat", "C": "dog"}
	for player, want := range wantWords {
		round := fetchRound(t, ts, lobbyID, player, 2)
		if round["roundType"] != "DrawWord" {
			t.Fatalf("expected DrawWord for %s, got %v", player, round["roundType"])
		}
		if round["word"] != want {
			t.Fatalf("expected %s to draw %q, got %v", player, want, round["word"])
		}
	}

	for _, player := range []string{"A", "B", "C"} {
		submitDrawing(t, ts, lobbyID, player, 2, drawingOf(player))
	}

	wantDrawings := map[string]string{"A": drawingOf("C"), "B": drawingOf("A"), "C": drawingOf("B")}
	for player, want := range wantDrawings {
		round := fetchRound(t, ts, lobbyID, player, 3)
		if round["roundType"] != "GuessWord" {
			t.Fatalf("expected GuessWord for %s, got %v", player, round["roundType"])
		}
		if round["drawing"] != want {
			t.Fatalf("expected %s to guess %q, got %v", player, want, round["drawing"])
		}
	}

	submitGuess(t, ts, lobbyID, "A", 3, "puppy")
	submitGuess(t, ts, lobbyID, "B", 3, "kitten")
	res = submitGuess(t, ts, lobbyID, "C", 3, "bark")
	if res["completed"] != true {
		t.Fatalf("expected game to complete, got %v", res)
	}
	if got := fetchLobby(t, ts, lobbyID)["status"]; got != "Complete" {
		t.Fatalf("expected Complete, got %v", got)
	}

	resp := doRequest(t, ts, http.MethodGet, playerPath(lobbyID, "A")+"/results", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	results := decodeBody(t, resp)
	if results["word"] != "cat" {
		t.Fatalf("expected A's word cat, got %v", results["word"])
	}
	chain := results["chain"].([]any)
	if len(chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(chain))
	}
	first := chain[0].(map[string]any)
	second := chain[1].(map[string]any)
	if first["playerId"] != "B" || first["drawing"] != drawingOf("B") {
		t.Fatalf("unexpected first entry: %v", first)
	}
	if second["playerId"] != "C" || second["word"] != "bark" {
		t.Fatalf("unexpected second entry: %v", second)
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/telestrations/lobby/"+lobbyID+"/chain", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	members := decodeList(t, resp)
	if len(members) != 3 {
		t.Fatalf("expected 3 chain members, got %d", len(members))
	}
	if members[0]["playerId"] != "A" || members[1]["playerId"] != "B" || members[2]["playerId"] != "C" {
		t.Fatalf("unexpected chain order: %v", members)
	}

	view := doRequest(t, ts, http.MethodGet, "/lobby/"+lobbyID+"/players/A/results", nil)
	if view.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, view.StatusCode)
	}
	html, _ := io.ReadAll(view.Body)
	if !strings.Contains(string(html), "bark") || !strings.Contains(string(html), "drawn-by-B") {
		t.Fatalf("expected results page to show the chain, got %s", html)
	}
}

func TestWordAndSiblingsEndpoints(t *testing.T) {
	ts := newOrderedServer(t, config.Default())
	lobbyID := createLobby(t, ts, "")
	togglePlayers(t, ts, lobbyID, "A", "B", "C")
	startLobby(t, ts, lobbyID)

	resp := doRequest(t, ts, http.MethodGet, playerPath(lobbyID, "A")+"/word", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d before a word is chosen, got %d", http.StatusNotFound, resp.StatusCode)
	}

	res := setWord(t, ts, lobbyID, "A", "  big   cat ")
	waiting := res["waitingOn"].([]any)
	if len(waiting) != 2 {
		t.Fatalf("expected 2 players pending, got %v", waiting)
	}

	resp = doRequest(t, ts, http.MethodGet, playerPath(lobbyID, "A")+"/word", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if got := decodeBody(t, resp)["word"]; got != "big cat" {
		t.Fatalf("expected normalized word, got %v", got)
	}

	resp = doRequest(t, ts, http.MethodGet, playerPath(lobbyID, "A")+"/siblings", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	siblings := decodeBody(t, resp)
	prev := siblings["previousPlayer"].(map[string]any)
	next := siblings["nextPlayer"].(map[string]any)
	if prev["playerId"] != "C" || next["playerId"] != "B" {
		t.Fatalf("unexpected siblings: %v", siblings)
	}
}

func TestListLobbiesOnlyShowsJoinable(t *testing.T) {
	ts := newOrderedServer(t, config.Default())
	open := createLobby(t, ts, "open")
	started := createLobby(t, ts, "started")
	togglePlayers(t, ts, started, "A")
	startLobby(t, ts, started)

	resp := doRequest(t, ts, http.MethodGet, "/api/telestrations/lobby", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	lobbies := decodeList(t, resp)
	if len(lobbies) != 1 || lobbies[0]["id"] != open {
		t.Fatalf("expected only the open lobby, got %v", lobbies)
	}

	home := doRequest(t, ts, http.MethodGet, "/", nil)
	html, _ := io.ReadAll(home.Body)
	if !strings.Contains(string(html), open) || strings.Contains(string(html), started) {
		t.Fatalf("expected home page to list only the open lobby")
	}
}

func TestTogglePlayers(t *testing.T) {
	ts := newOrderedServer(t, config.Default())
	lobbyID := createLobby(t, ts, "")

	lobby := togglePlayers(t, ts, lobbyID, "A", "B")
	if got := len(lobby["players"].([]any)); got != 2 {
		t.Fatalf("expected 2 players, got %d", got)
	}
	lobby = togglePlayers(t, ts, lobbyID, "A", "C")
	players := lobby["players"].([]any)
	if len(players) != 2 {
		t.Fatalf("expected 2 players after toggle, got %d", len(players))
	}
	ids := []string{players[0].(map[string]any)["playerId"].(string), players[1].(map[string]any)["playerId"].(string)}
	if ids[0] != "B" || ids[1] != "C" {
		t.Fatalf("expected B and C to remain, got %v", ids)
	}
}

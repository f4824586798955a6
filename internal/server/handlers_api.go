package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"telestrations/internal/game"
)

type lobbyURI struct {
	LobbyID string `uri:"lobby_id" binding:"required"`
}

type playerURI struct {
	LobbyID  string `uri:"lobby_id" binding:"required"`
	PlayerID string `uri:"player_id" binding:"required"`
}

type roundURI struct {
	LobbyID     string `uri:"lobby_id" binding:"required"`
	PlayerID    string `uri:"player_id" binding:"required"`
	RoundNumber int    `uri:"round_number" binding:"required,min=1"`
}

type lobbyRoundURI struct {
	LobbyID     string `uri:"lobby_id" binding:"required"`
	RoundNumber int    `uri:"round_number" binding:"required,min=1"`
}

type roundQuery struct {
	PlayerID string `form:"playerId" binding:"required"`
}

type createLobbyRequest struct {
	Name string `json:"name" binding:"max=64"`
}

type playerRequest struct {
	ID   string `json:"id" binding:"required,max=64"`
	Name string `json:"name" binding:"max=64"`
}

type wordRequest struct {
	Word string `json:"word" binding:"required,word"`
}

type guessRequest struct {
	Guess string `json:"guess" binding:"required,word"`
}

type drawingRequest struct {
	Drawing string `json:"drawing" binding:"required,drawing"`
}

func (s *Server) handleListLobbies(c *gin.Context) {
	lobbies, err := s.engine.ListJoinableLobbies(c.Request.Context())
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, lobbies)
}

func (s *Server) handleGetLobby(c *gin.Context) {
	var uri lobbyURI
	if !bindURI(c, &uri) {
		return
	}
	lobby, err := s.engine.GetLobby(c.Request.Context(), uri.LobbyID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, lobby)
}

func (s *Server) handleCreateLobby(c *gin.Context) {
	if !s.enforceRateLimit(c, "create") {
		return
	}
	var req createLobbyRequest
	if c.Request.ContentLength != 0 {
		if !bindJSON(c, &req, bindMessages{
			"Name": {"max": "name must be 64 characters or fewer"},
		}, "invalid lobby") {
			return
		}
	}
	lobby, err := s.engine.CreateLobby(c.Request.Context(), normalizeText(req.Name))
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lobby)
}

func (s *Server) handleUpdatePlayers(c *gin.Context) {
	if !s.enforceRateLimit(c, "players") {
		return
	}
	var uri lobbyURI
	if !bindURI(c, &uri) {
		return
	}
	var req []playerRequest
	if !bindJSON(c, &req, bindMessages{
		"ID": {"required": "player id is required", "max": "player id must be 64 characters or fewer"},
	}, "players must be a list of {id, name}") {
		return
	}
	if len(req) == 0 || len(req) > maxPlayersPerCall {
		writeError(c, http.StatusBadRequest, "between 1 and 32 players per request")
		return
	}
	refs := make([]game.PlayerRef, 0, len(req))
	for _, p := range req {
		refs = append(refs, game.PlayerRef{ID: p.ID, Name: normalizeText(p.Name)})
	}
	lobby, err := s.engine.AddOrRemovePlayers(c.Request.Context(), uri.LobbyID, refs)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, lobby)
}

func (s *Server) handleStartGame(c *gin.Context) {
	var uri lobbyURI
	if !bindURI(c, &uri) {
		return
	}
	lobby, err := s.engine.StartGame(c.Request.Context(), uri.LobbyID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, lobby)
}

func (s *Server) handleGetWord(c *gin.Context) {
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	word, err := s.engine.GetPlayerWord(c.Request.Context(), uri.LobbyID, uri.PlayerID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"word": word})
}

func (s *Server) handleSetWord(c *gin.Context) {
	if !s.enforceRateLimit(c, "submit") {
		return
	}
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	var req wordRequest
	if !bindJSON(c, &req, bindMessages{
		"Word": {"required": "word is required", "word": "word contains unsupported characters"},
	}, "word is required") {
		return
	}
	word, err := validateWord(req.Word, s.cfg.MaxWordLength)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.engine.SetPlayerWord(c.Request.Context(), uri.LobbyID, uri.PlayerID, word)
	s.respondSubmit(c, result, err)
}

func (s *Server) handleGetRound(c *gin.Context) {
	var uri lobbyRoundURI
	if !bindURI(c, &uri) {
		return
	}
	var query roundQuery
	if !bindQuery(c, &query) {
		return
	}
	round, err := s.engine.GetRound(c.Request.Context(), uri.LobbyID, query.PlayerID, uri.RoundNumber)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, round)
}

func (s *Server) handleSubmitDrawing(c *gin.Context) {
	if !s.enforceRateLimit(c, "submit") {
		return
	}
	var uri roundURI
	if !bindURI(c, &uri) {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.cfg.MaxDrawingBytes)+1024)
	var req drawingRequest
	if !bindJSON(c, &req, bindMessages{
		"Drawing": {"required": "drawing is required", "drawing": "drawing must be an image data URL or an http(s) URL"},
	}, "drawing is required") {
		return
	}
	drawing, err := validateDrawing(req.Drawing, s.cfg.MaxDrawingBytes)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.engine.SubmitDrawing(c.Request.Context(), uri.LobbyID, uri.PlayerID, uri.RoundNumber, drawing)
	s.respondSubmit(c, result, err)
}

func (s *Server) handleSubmitGuess(c *gin.Context) {
	if !s.enforceRateLimit(c, "submit") {
		return
	}
	var uri roundURI
	if !bindURI(c, &uri) {
		return
	}
	var req guessRequest
	if !bindJSON(c, &req, bindMessages{
		"Guess": {"required": "guess is required", "word": "guess contains unsupported characters"},
	}, "guess is required") {
		return
	}
	guess, err := validateText("guess", req.Guess, s.cfg.MaxWordLength)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.engine.SubmitGuess(c.Request.Context(), uri.LobbyID, uri.PlayerID, uri.RoundNumber, guess)
	s.respondSubmit(c, result, err)
}

// respondSubmit writes the submission result and forwards the still-pending
// players to the lobby's subscribers.
func (s *Server) respondSubmit(c *gin.Context, result *game.SubmitResult, err error) {
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if len(result.WaitingOn) > 0 {
		s.hub.Notify(result.Lobby.ID, game.EventWaitingOn, result.WaitingOn)
	}
	if result.Completed {
		log.Info().Str("lobby_id", result.Lobby.ID).Msg("results available")
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleResults(c *gin.Context) {
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	results, err := s.engine.GetResultsForPlayer(c.Request.Context(), uri.LobbyID, uri.PlayerID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) handleSiblings(c *gin.Context) {
	var uri playerURI
	if !bindURI(c, &uri) {
		return
	}
	siblings, err := s.engine.GetSiblings(c.Request.Context(), uri.LobbyID, uri.PlayerID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, siblings)
}

func (s *Server) handleChain(c *gin.Context) {
	var uri lobbyURI
	if !bindURI(c, &uri) {
		return
	}
	chain, err := s.engine.GetChain(c.Request.Context(), uri.LobbyID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, chain)
}

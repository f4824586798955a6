package server

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"telestrations/internal/game"
	"telestrations/internal/web"
)

func (s *Server) handleHome(c *gin.Context) {
	lobbies, err := s.engine.ListJoinableLobbies(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list lobbies for home failed")
		lobbies = nil
	}
	summaries := make([]web.LobbySummary, 0, len(lobbies))
	for _, lobby := range lobbies {
		summaries = append(summaries, web.LobbySummary{
			ID:      lobby.ID,
			Name:    lobby.Name,
			Players: len(lobby.Players),
			Created: web.FormatTime(lobby.CreatedAt),
		})
	}
	templ.Handler(web.Home(summaries)).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) handleResultsView(c *gin.Context) {
	var uri playerURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}
	results, err := s.engine.GetResultsForPlayer(c.Request.Context(), uri.LobbyID, uri.PlayerID)
	if err != nil {
		log.Info().Err(err).Str("lobby_id", uri.LobbyID).Str("player_id", uri.PlayerID).Msg("results view unavailable")
		c.Redirect(http.StatusFound, "/")
		return
	}
	templ.Handler(web.Results(resultsView(results))).ServeHTTP(c.Writer, c.Request)
}

func resultsView(results *game.Results) web.ResultsView {
	view := web.ResultsView{
		LobbyID:    results.LobbyID,
		PlayerName: results.Name,
		Word:       results.Word,
		Entries:    make([]web.ResultsEntry, 0, len(results.Chain)),
	}
	if view.PlayerName == "" {
		view.PlayerName = results.PlayerID
	}
	for _, entry := range results.Chain {
		name := entry.Name
		if name == "" {
			name = entry.PlayerID
		}
		view.Entries = append(view.Entries, web.ResultsEntry{
			Round:   entry.Round,
			Name:    name,
			Kind:    string(entry.Type),
			Word:    entry.Word,
			Drawing: entry.Drawing,
			Pending: entry.Pending,
		})
	}
	return view
}

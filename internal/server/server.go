package server

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"telestrations/internal/config"
	"telestrations/internal/game"
)

// WordSuggester hands out candidate words for the first round.
type WordSuggester interface {
	Suggest(ctx context.Context, count int) ([]string, error)
}

type Server struct {
	engine  *game.Engine
	hub     *lobbyHub
	words   WordSuggester
	cfg     config.Config
	limiter *rateLimiter
}

// New builds the engine on top of store with the websocket hub as its
// notifier. A nil words falls back to the built-in list. opts are applied
// after the ones derived from cfg.
func New(store game.Store, words WordSuggester, cfg config.Config, opts ...game.Option) *Server {
	registerValidators()
	hub := newLobbyHub()
	if words == nil {
		words = newStaticWords(defaultWords)
	}
	engineOpts := append([]game.Option{
		game.WithMinPlayers(cfg.MinPlayers),
		game.WithStrictRounds(cfg.StrictRounds),
	}, opts...)
	engine := game.NewEngine(store, hub, engineOpts...)
	return &Server{
		engine:  engine,
		hub:     hub,
		words:   words,
		cfg:     cfg,
		limiter: newRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	}
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())
	router.Use(cors.New(s.corsConfig()))

	router.GET("/", s.handleHome)
	router.GET("/lobby/:lobby_id/players/:player_id/results", s.handleResultsView)
	router.GET("/ws/lobby/:lobby_id", s.handleWebsocket)
	router.GET("/api/words/suggestions", s.handleWordSuggestions)

	api := router.Group("/api/telestrations")
	api.GET("/lobby", s.handleListLobbies)
	api.POST("/lobby", s.handleCreateLobby)
	api.GET("/lobby/:lobby_id", s.handleGetLobby)
	api.PUT("/lobby/:lobby_id/players", s.handleUpdatePlayers)
	api.POST("/lobby/:lobby_id/start", s.handleStartGame)
	api.GET("/lobby/:lobby_id/chain", s.handleChain)
	api.GET("/lobby/:lobby_id/round/:round_number", s.handleGetRound)
	api.GET("/lobby/:lobby_id/players/:player_id/word", s.handleGetWord)
	api.POST("/lobby/:lobby_id/players/:player_id/word", s.handleSetWord)
	api.GET("/lobby/:lobby_id/players/:player_id/results", s.handleResults)
	api.GET("/lobby/:lobby_id/players/:player_id/siblings", s.handleSiblings)
	api.POST("/lobby/:lobby_id/players/:player_id/round/:round_number/drawing", s.handleSubmitDrawing)
	api.POST("/lobby/:lobby_id/players/:player_id/round/:round_number/guess", s.handleSubmitGuess)
	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
	}
	if len(s.cfg.CORSOrigins) == 0 || slices.Contains(s.cfg.CORSOrigins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = s.cfg.CORSOrigins
	return cfg
}

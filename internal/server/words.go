package server

import (
	"context"
	"math/rand"
	"net/http"

	"github.com/gin-gonic/gin"
)

var defaultWords = []string{
	"cat", "dog", "sun", "moon", "rocket", "castle", "pirate", "volcano",
	"guitar", "penguin", "robot", "snowman", "dragon", "pizza", "lighthouse",
	"umbrella", "cactus", "octopus", "wizard", "treehouse", "bicycle",
	"mermaid", "tornado", "campfire", "unicorn", "submarine", "sandcastle",
}

type staticWords struct {
	words []string
}

func newStaticWords(words []string) *staticWords {
	return &staticWords{words: words}
}

func (w *staticWords) Suggest(_ context.Context, count int) ([]string, error) {
	picked := make([]string, len(w.words))
	copy(picked, w.words)
	rand.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	if count < len(picked) {
		picked = picked[:count]
	}
	return picked, nil
}

type suggestionsQuery struct {
	Count int `form:"count" binding:"omitempty,min=1"`
}

func (s *Server) handleWordSuggestions(c *gin.Context) {
	var query suggestionsQuery
	if !bindQuery(c, &query) {
		return
	}
	count := query.Count
	if count == 0 || count > s.cfg.WordSuggestionLimit {
		count = s.cfg.WordSuggestionLimit
	}
	words, err := s.words.Suggest(c.Request.Context(), count)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if len(words) == 0 {
		words, _ = newStaticWords(defaultWords).Suggest(c.Request.Context(), count)
	}
	c.JSON(http.StatusOK, gin.H{"words": words})
}

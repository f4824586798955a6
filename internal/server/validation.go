package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength     = 64
	maxPlayerIDLength = 64
	maxPlayersPerCall = 32
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("word", func(fl validator.FieldLevel) bool {
			return isSafeText(normalizeText(fl.Field().String()))
		})
		_ = engine.RegisterValidation("drawing", func(fl validator.FieldLevel) bool {
			return isDrawing(fl.Field().String())
		})
	})
}

func validateWord(text string, maxLen int) (string, error) {
	return validateText("word", text, maxLen)
}

func validateDrawing(drawing string, maxBytes int) (string, error) {
	trimmed := strings.TrimSpace(drawing)
	if trimmed == "" {
		return "", errors.New("drawing is required")
	}
	if len(trimmed) > maxBytes {
		return "", fmt.Errorf("drawing must be %d bytes or fewer", maxBytes)
	}
	if !isDrawing(trimmed) {
		return "", errors.New("drawing must be an image data URL or an http(s) URL")
	}
	return trimmed, nil
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len(trimmed) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	if !isSafeText(trimmed) {
		return "", fmt.Errorf("%s contains unsupported characters", label)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isDrawing(value string) bool {
	value = strings.TrimSpace(value)
	return strings.HasPrefix(value, "data:image/") ||
		strings.HasPrefix(value, "https://") ||
		strings.HasPrefix(value, "http://")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '"', '.', ',', '!', '?', ':', ';', '&', '(', ')', '/':
			continue
		default:
			return false
		}
	}
	return true
}

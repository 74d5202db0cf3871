package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pumpbrain/pumpbrain/internal/core/domain"
	"github.com/pumpbrain/pumpbrain/internal/logger"
	"go.uber.org/zap"
)

// narrator turns a context record into a model opinion of type T.
type narrator[T any] struct {
	generator domain.TextGenerator
	log       *logger.Logger
}

// marshalContext renders a context record the way it is embedded in prompts.
func marshalContext(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}
	return string(b), nil
}

// narrate sends the prompt and parses the reply. A reply that does not parse is
// replaced by fallback(); only a failed generator call is returned as an error.
// normalize, when set, is applied to the parsed or degraded result.
func (n *narrator[T]) narrate(ctx context.Context, prompt string, fallback func() T, normalize func(*T)) (*T, error) {
	text, err := n.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	result, err := parseModelJSON[T](text)
	if err != nil {
		n.log.Warn("model output did not parse, using degraded result",
			zap.Error(err),
			zap.Int("output_bytes", len(text)),
		)
		fb := fallback()
		result = &fb
	}
	if normalize != nil {
		normalize(result)
	}
	return result, nil
}

// parseModelJSON decodes raw model output as a single JSON object of type T.
// Markdown code fences around the object are tolerated.
func parseModelJSON[T any](text string) (*T, error) {
	body := stripCodeFence(text)
	if !strings.HasPrefix(body, "{") {
		return nil, fmt.Errorf("model output is not a JSON object")
	}
	var out T
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func clampScore(v float64) float64 {
	switch {
	case v < 1:
		return 1
	case v > 10:
		return 10
	default:
		return v
	}
}

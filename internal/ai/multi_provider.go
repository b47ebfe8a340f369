package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// MultiProvider tries providers in order and falls back on any error, so a
// rate-limited primary never blocks enrichment.
type MultiProvider struct {
	providers []Provider
}

// NewMultiProvider creates a new multi-provider fallback chain
func NewMultiProvider(providers ...Provider) *MultiProvider {
	if len(providers) == 0 {
		panic("at least one provider required")
	}
	return &MultiProvider{providers: providers}
}

func (m *MultiProvider) Name() string {
	names := make([]string, len(m.providers))
	for i, p := range m.providers {
		names[i] = p.Name()
	}
	return "Multi[" + strings.Join(names, "+") + "]"
}

// GenerateCompletion walks the chain until one provider succeeds
func (m *MultiProvider) GenerateCompletion(ctx context.Context, prompt string) (string, error) {
	for i, provider := range m.providers {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		content, err := provider.GenerateCompletion(ctx, prompt)
		if err == nil {
			return content, nil
		}
		log.Printf("[MultiProvider] %s failed (attempt %d/%d): %v", provider.Name(), i+1, len(m.providers), err)
	}
	return "", fmt.Errorf("all providers failed")
}

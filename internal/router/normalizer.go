package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
)

// fillerPrefixes are politeness openers stripped before matching.
var fillerPrefixes = []string{
	"please ",
	"pls ",
	"kindly ",
	"can you ",
	"could you ",
	"would you ",
	"i want to ",
	"i need to ",
	"i would like to ",
	"hey ",
	"hi ",
	"hello ",
	"ok ",
	"okay ",
}

// Normalize lowercases, collapses whitespace, and strips politeness
// fillers and trailing punctuation. When normalization would leave
// nothing, the trimmed original is returned unchanged so the raw turn
// is never lost.
func Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return trimmed
	}

	s := strings.ToLower(trimmed)
	s = strings.Join(strings.Fields(s), " ")

	for changed := true; changed; {
		changed = false
		for _, prefix := range fillerPrefixes {
			if strings.HasPrefix(s, prefix) {
				s = strings.TrimPrefix(s, prefix)
				changed = true
			}
		}
	}

	s = strings.TrimRight(s, "?!. ")

	if s == "" {
		return strings.ToLower(trimmed)
	}
	return s
}

// normalizeLLM asks the model to fix typos and expand shorthand so the
// deterministic patterns get a second chance. Anything suspicious about
// the reply keeps the original text: a broken normalizer must never
// lose the user's words.
func (r *SemanticRouter) normalizeLLM(ctx context.Context, raw string) string {
	resp, err := r.llm.GenerateContent(ctx, &llmprovider.Request{
		Messages:    []llmprovider.Message{{Role: "user", Text: fmt.Sprintf(PromptNormalizerSystem, raw)}},
		Model:       r.cfg.Model,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		r.l.Debugf(ctx, "%s: typo pass failed, keeping raw input: %v", LogPrefixNormalize, err)
		return raw
	}

	fixed := strings.TrimSpace(resp.Text)
	if !usableNormalization(raw, fixed) {
		r.l.Debugf(ctx, "%s: discarded suspicious rewrite %q", LogPrefixNormalize, fixed)
		return raw
	}
	return fixed
}

// usableNormalization filters model replies that are not a plain
// rewrite of the input: refusals, JSON, fences, or runaway text.
func usableNormalization(raw, fixed string) bool {
	if fixed == "" {
		return false
	}
	if strings.ContainsAny(fixed, "{}`") || strings.Contains(fixed, "\n") {
		return false
	}
	return len(fixed) <= 2*len(raw)+20
}

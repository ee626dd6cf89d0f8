package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/model"
	"github.com/ayushchhipa1509/OCI-COPILOT/pkg/llmprovider"
)

const resourceNouns = `instance|instances|vm|vms|server|servers|bucket|buckets|object|objects|volume|volumes|vcn|vcns|subnet|subnets|network|user|users|group|groups|compartment|compartments|load balancer|load balancers|backend|database|databases|db system|file system|zone|zones`

var (
	actionPattern    = regexp.MustCompile(`^(create|launch|provision|delete|remove|terminate|stop|start|restart|reboot|attach|detach|resize|update)\b.*\b(` + resourceNouns + `)\b`)
	retrievalPattern = regexp.MustCompile(`^(list|show|display|describe|fetch)\b.*\b(` + resourceNouns + `)\b`)
	countPattern     = regexp.MustCompile(`^how many\b.*\b(` + resourceNouns + `)\b`)
)

// Classify determines user intent from message
// Convention: Method accepts context.Context as first parameter
func (r *SemanticRouter) Classify(ctx context.Context, message string, conversationHistory []string) (RouterOutput, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return RouterOutput{}, errors.New(ErrMsgEmptyMessage)
	}

	normalized := Normalize(trimmed)

	// Deterministic fast path for unmistakable cloud commands.
	if intent, ok := fastIntent(normalized); ok {
		r.l.Debugf(ctx, "%s: pattern matched intent %s", LogPrefixClassify, intent)
		return patternOutput(normalized, intent), nil
	}

	// One typo-fixing pass may still reveal a plain command.
	current := trimmed
	if r.cfg.NormalizerEnabled {
		if fixed := r.normalizeLLM(ctx, trimmed); fixed != trimmed {
			current = fixed
			normalized = Normalize(fixed)
			if intent, ok := fastIntent(normalized); ok {
				r.l.Debugf(ctx, "%s: pattern matched intent %s after typo fix", LogPrefixClassify, intent)
				return patternOutput(normalized, intent), nil
			}
		}
	}

	// Build prompt with conversation history
	historyContext := ""
	if len(conversationHistory) > 0 {
		historyContext = PromptHistoryPrefix
		for i, msg := range conversationHistory {
			historyContext += fmt.Sprintf("%d. %s\n", i+1, msg)
		}
		historyContext += "\n"
	}

	prompt := historyContext + fmt.Sprintf(PromptRouterSystem, current)

	resp, err := r.llm.GenerateContent(ctx, &llmprovider.Request{
		Messages:    []llmprovider.Message{{Role: "user", Text: prompt}},
		Model:       r.cfg.Model,
		Temperature: r.cfg.Temperature,
	})
	if err != nil {
		// Classification failure is never fatal for the turn.
		r.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, ErrMsgLLMCallFailed, err)
		return fallbackOutput(normalized, ReasonLLMUnavailable), nil
	}

	responseText := strings.TrimSpace(resp.Text)
	if responseText == "" {
		r.l.Warnf(ctx, "%s: %s", LogPrefixClassify, ErrMsgEmptyResponse)
		return fallbackOutput(normalized, ReasonEmptyResponse), nil
	}

	// Strip markdown code blocks if present (```json ... ```)
	if strings.HasPrefix(responseText, "```json") {
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	} else if strings.HasPrefix(responseText, "```") {
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)
	}

	// Parse JSON response
	var output RouterOutput
	if err := json.Unmarshal([]byte(responseText), &output); err != nil {
		r.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, ErrMsgJSONParseFailed, err)
		return fallbackOutput(normalized, ReasonParsingError), nil
	}

	switch output.Intent {
	case model.IntentAction, model.IntentRetrieval, model.IntentQuestion:
	default:
		r.l.Warnf(ctx, "%s: unknown intent %q, falling back", LogPrefixClassify, output.Intent)
		return fallbackOutput(normalized, ReasonParsingError), nil
	}

	// Questions are never executable, everything else always is.
	output.IsExecutable = output.Intent != model.IntentQuestion
	output.NormalizedQuery = normalized

	r.l.Infof(ctx, "%s: Classified as %s (confidence: %d%%)", LogPrefixClassify, output.Intent, output.Confidence)
	return output, nil
}

func patternOutput(normalized string, intent model.Intent) RouterOutput {
	return RouterOutput{
		NormalizedQuery: normalized,
		Intent:          intent,
		IsExecutable:    true,
		Confidence:      95,
		Reasoning:       ReasonPatternMatch,
	}
}

func fallbackOutput(normalized, reason string) RouterOutput {
	return RouterOutput{
		NormalizedQuery: normalized,
		Intent:          RouterFallbackIntent,
		IsExecutable:    false,
		Confidence:      RouterFallbackConfidence,
		Reasoning:       reason,
	}
}

// fastIntent classifies obvious cloud commands without an LLM call.
func fastIntent(normalized string) (model.Intent, bool) {
	if actionPattern.MatchString(normalized) {
		return model.IntentAction, true
	}
	if retrievalPattern.MatchString(normalized) || countPattern.MatchString(normalized) {
		return model.IntentRetrieval, true
	}
	return "", false
}

// MatchesCommand reports whether the normalized text reads like a
// cloud command rather than an answer to a pending question.
func MatchesCommand(normalized string) bool {
	_, ok := fastIntent(normalized)
	return ok
}

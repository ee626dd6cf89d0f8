package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

// Preference phrasings users teach the agent with. "my default
// compartment is X" keys on the noun so a later correction overwrites
// the old value; free-form "remember that ..." facts key on a content
// hash so re-teaching the same fact stays one entry.
var (
	defaultPrefRe  = regexp.MustCompile(`(?i)\bmy default ([a-z][a-z0-9 _-]*?)\s+is\s+(.+)`)
	rememberPrefRe = regexp.MustCompile(`(?i)\bremember that\s+(.+)`)
)

// extractPreferences scans one user input for explicitly taught
// preferences. Returns an empty map when nothing matched.
func extractPreferences(input string) map[string]string {
	prefs := make(map[string]string)

	if m := defaultPrefRe.FindStringSubmatch(input); m != nil {
		name := strings.ToLower(strings.TrimSpace(m[1]))
		name = strings.ReplaceAll(name, " ", "_")
		name = strings.ReplaceAll(name, "-", "_")
		prefs["default_"+name] = trimSentenceEnd(m[2])
	}

	if m := rememberPrefRe.FindStringSubmatch(input); m != nil {
		fact := trimSentenceEnd(m[1])
		sum := sha256.Sum256([]byte(strings.ToLower(fact)))
		prefs["note_"+hex.EncodeToString(sum[:])[:8]] = fact
	}

	return prefs
}

func trimSentenceEnd(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".!?")
}

package supervisor

import (
	"strconv"
	"strings"

	"github.com/ayushchhipa1509/OCI-COPILOT/internal/router"
)

// confirmationWords are full replies that grant a pending confirmation.
var confirmationWords = map[string]struct{}{
	"yes":         {},
	"y":           {},
	"yep":         {},
	"yeah":        {},
	"ok":          {},
	"okay":        {},
	"sure":        {},
	"confirm":     {},
	"confirmed":   {},
	"proceed":     {},
	"go ahead":    {},
	"do it":       {},
	"yes please":  {},
	"okay do it":  {},
	"yes, do it":  {},
	"go for it":   {},
	"sounds good": {},
}

// cancellationWords are full replies that drop the active plan. "stop" and
// "no" match only as the whole reply so commands like "stop the instance"
// still read as requests.
var cancellationWords = map[string]struct{}{
	"cancel":     {},
	"stop":       {},
	"abort":      {},
	"quit":       {},
	"no":         {},
	"nope":       {},
	"never mind": {},
	"nevermind":  {},
	"forget it":  {},
	"drop it":    {},
}

// requestVerbs open an instruction even when no resource noun follows,
// e.g. "stop web-1".
var requestVerbs = map[string]struct{}{
	"create":    {},
	"launch":    {},
	"provision": {},
	"make":      {},
	"delete":    {},
	"remove":    {},
	"terminate": {},
	"start":     {},
	"stop":      {},
	"restart":   {},
	"reboot":    {},
	"attach":    {},
	"detach":    {},
	"resize":    {},
	"update":    {},
	"list":      {},
	"show":      {},
	"display":   {},
	"describe":  {},
	"fetch":     {},
	"get":       {},
}

// questionStarts open a question that deserves an answer before the
// suspended plan resumes.
var questionStarts = map[string]struct{}{
	"what":    {},
	"which":   {},
	"how":     {},
	"why":     {},
	"who":     {},
	"where":   {},
	"when":    {},
	"can":     {},
	"could":   {},
	"would":   {},
	"tell":    {},
	"explain": {},
}

func normalizeReply(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, ".!?, ")
	return strings.Join(strings.Fields(s), " ")
}

func firstWord(normalized string) string {
	first, _, _ := strings.Cut(normalized, " ")
	return strings.Trim(first, ",")
}

func isConfirmation(input string) bool {
	n := normalizeReply(input)
	if _, ok := confirmationWords[n]; ok {
		return true
	}
	switch firstWord(n) {
	case "yes", "confirm", "proceed":
		return true
	}
	return false
}

func isCancellation(input string) bool {
	n := normalizeReply(input)
	if _, ok := cancellationWords[n]; ok {
		return true
	}
	switch firstWord(n) {
	case "cancel", "abort", "nevermind":
		return true
	}
	return strings.HasPrefix(n, "never mind")
}

// looksLikeNewRequest separates a fresh instruction from an answer to a
// pending question. Bare values, numbered picks, OCIDs and name: value
// pairs all read as answers.
func looksLikeNewRequest(input string) bool {
	norm := router.Normalize(input)
	if norm == "" {
		return false
	}
	if strings.Contains(norm, "ocid1.") {
		return false
	}
	if strings.ContainsAny(norm, ":=") {
		return false
	}

	first := firstWord(norm)
	if first == "" {
		return false
	}
	if _, err := strconv.Atoi(first); err == nil {
		return false
	}

	if router.MatchesCommand(norm) {
		return true
	}
	if _, ok := requestVerbs[first]; ok {
		return true
	}
	if _, ok := questionStarts[first]; ok {
		return true
	}
	return false
}

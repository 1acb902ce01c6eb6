package discovery

import (
	"regexp"
	"strings"
)

var evmAddressRe = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)

// extractAddress returns the first EVM address found in the text, or "".
// Repos usually advertise exactly one contract; extra matches are ignored.
func extractAddress(text string) string {
	return evmAddressRe.FindString(text)
}

// repoText flattens the searchable metadata of a repository into one string.
func repoText(r Repository) string {
	parts := []string{r.Name, r.Description}
	parts = append(parts, r.Topics...)
	return strings.Join(parts, " ")
}

// deriveSymbol guesses a ticker from the repository name: letters and digits
// only, uppercased, capped at 8 runes. "doge-moon-token" becomes "DOGEMOON".
func deriveSymbol(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	sym := b.String()
	sym = strings.TrimSuffix(sym, "TOKEN")
	sym = strings.TrimSuffix(sym, "COIN")
	if sym == "" {
		sym = "UNKNOWN"
	}
	if len(sym) > 8 {
		sym = sym[:8]
	}
	return sym
}

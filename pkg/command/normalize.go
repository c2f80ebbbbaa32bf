package command

import "strings"

// Stopwords dropped during tokenization: articles and speech fillers
// that carry no command intent. Alias phrases in the catalog must not
// contain any of these.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true,
	"please": true, "to": true, "i": true, "me": true, "my": true,
	"can": true, "could": true, "would": true, "should": true,
	"need": true, "want": true, "just": true, "really": true,
	"um": true, "uh": true, "oh": true, "hey": true,
}

// Normalize lowercases, trims, strips punctuation and collapses
// whitespace. It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	lastSpace := true
	for _, r := range raw {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastSpace = false
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '-' || r == '_' || r == '/':
			if !lastSpace {
				b.WriteByte(' ')
			}
			lastSpace = true
		}
		// Everything else (apostrophes, punctuation) is dropped.
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits normalized text on whitespace and drops stopwords.
func Tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

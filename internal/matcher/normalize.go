package matcher

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	reNonAlnum   = regexp.MustCompile(`[^a-z0-9\s]+`)
	reMultiSpace = regexp.MustCompile(`\s+`)
	reQualifier  = regexp.MustCompile(`\s*[(\[][^()\[\]]*[)\]]\s*$`)
	reReleaseTag = regexp.MustCompile(`\s+-\s+(single|ep)$`)
)

// stripDiacritics removes combining marks after NFD decomposition.
func stripDiacritics(s string) string {
	decomp := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomp))
	for _, r := range decomp {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// normalizeKey folds an album name into the form used for comparison.
//
// "Sgt. Pepper's Lonely Hearts Club Band (Remastered)" -> "sgt peppers lonely hearts club band"
func normalizeKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	raw := strings.ToLower(s)

	s = norm.NFKC.String(s)
	s = stripDiacritics(s)
	s = strings.ToLower(s)

	// Trailing edition qualifiers, "(Deluxe)" and "[Remastered]" alike
	for {
		stripped := reQualifier.ReplaceAllString(s, "")
		if stripped == s || strings.TrimSpace(stripped) == "" {
			break
		}
		s = stripped
	}
	s = reReleaseTag.ReplaceAllString(s, "")

	s = strings.NewReplacer("'", "", "’", "", "&", " and ").Replace(s)
	s = reNonAlnum.ReplaceAllString(s, " ")
	s = reMultiSpace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	// Names made only of punctuation ("!!!") keep their raw form
	if s == "" {
		return raw
	}
	return s
}

func tokenSet(key string) map[string]struct{} {
	fields := strings.Fields(key)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

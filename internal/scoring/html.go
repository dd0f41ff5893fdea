package scoring

import (
	"regexp"
	"strings"
)

var (
	tagRe        = regexp.MustCompile(`(?s)<[^>]*>`)
	structuralRe = regexp.MustCompile(`(?i)<\s*(ul|ol|li|h[1-6]|strong|em|b)\b`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// stripMarkup removes tags and collapses whitespace so length and word
// counts reflect visible text only.
func stripMarkup(s string) string {
	if s == "" {
		return ""
	}
	out := tagRe.ReplaceAllString(s, " ")
	out = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	).Replace(out)
	out = spaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// hasStructuralMarkup reports whether the raw text carries list, heading
// or emphasis tags.
func hasStructuralMarkup(s string) bool {
	return structuralRe.MatchString(s)
}

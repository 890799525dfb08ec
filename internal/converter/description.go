package converter

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ginjaninja78/csv2html/internal/config"
)

// urlPattern matches an http(s) scheme followed by a run of non-whitespace
// characters. The excluded class covers Unicode whitespace, not only the
// ASCII set that \s stands for in RE2.
var urlPattern = regexp.MustCompile(`https?://[^\s\v\x{1c}-\x{1f}\x{85}\p{Z}]+`)

var htmlEscaper = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
	`'`, "&#x27;",
)

var (
	inlinePolicyOnce sync.Once
	inlinePolicy     *bluemonday.Policy

	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// EscapeHTML replaces the five HTML-significant characters with entity
// references, so the result is safe as element text and as a quoted
// attribute value.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// SubstituteLinks wraps every bare http(s) URL in text in an anchor whose
// href and text are the URL exactly as found. Matches do not overlap and are
// replaced left to right.
func SubstituteLinks(text string) string {
	return urlPattern.ReplaceAllStringFunc(text, func(url string) string {
		return `<a href="` + url + `">` + url + `</a>`
	})
}

// descriptionCleaner returns the function applied to the description before
// link substitution.
func descriptionCleaner(mode string) func(string) string {
	switch strings.ToLower(mode) {
	case config.DescriptionEscape:
		return EscapeHTML
	case config.DescriptionInline:
		return inlineSanitizer().Sanitize
	case config.DescriptionStrip:
		return stripSanitizer().Sanitize
	default:
		return func(s string) string { return s }
	}
}

// inlineSanitizer keeps inline emphasis and line breaks. Anchors are not
// allowed: bare URLs are linked afterwards, and an existing href would be
// linked a second time.
func inlineSanitizer() *bluemonday.Policy {
	inlinePolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("b", "strong", "i", "em", "br")
		inlinePolicy = policy
	})
	return inlinePolicy
}

func stripSanitizer() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

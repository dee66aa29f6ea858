// Package assets resolves image references found in response-sheet markup
// into fully-qualified URLs and derives their bilingual variants.
package assets

import (
	"net/url"
	"regexp"
	"strings"
)

// Variants holds the per-language URLs of one asset. When the filename
// carries no language marker both fields point at the same URL; for an
// empty or unusable input both are empty.
type Variants struct {
	Hindi   string `json:"hindi,omitempty"`
	English string `json:"english,omitempty"`
}

var reLangSuffix = regexp.MustCompile(`(?i)_(hi|en)$`)

// Resolve turns a src attribute into an absolute URL. Absolute,
// protocol-relative and data URIs pass through untouched; root-relative
// paths are rewritten against the origin of baseDir; anything else is
// joined onto baseDir.
func Resolve(src, baseDir string) string {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:") || strings.HasPrefix(src, "//") {
		return src
	}
	if strings.HasPrefix(src, "/") {
		u, err := url.Parse(baseDir)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return src
		}
		return u.Scheme + "://" + u.Host + src
	}
	if baseDir == "" {
		return src
	}
	return strings.TrimSuffix(baseDir, "/") + "/" + src
}

// LanguageVariants inspects the filename for a _HI/_EN marker before the
// extension and derives the sibling language's URL by substituting the
// marker. Filenames without a marker map both languages to the input.
func LanguageVariants(u string) Variants {
	u = strings.TrimSpace(u)
	if u == "" {
		return Variants{}
	}
	stem, ext := splitExt(u)
	m := reLangSuffix.FindString(stem)
	if m == "" {
		return Variants{Hindi: u, English: u}
	}
	base := stem[:len(stem)-len(m)]
	hi, en := "_HI", "_EN"
	if m == strings.ToLower(m) {
		hi, en = "_hi", "_en"
	}
	switch strings.ToLower(m) {
	case "_hi":
		return Variants{Hindi: u, English: base + en + ext}
	default:
		return Variants{Hindi: base + hi + ext, English: u}
	}
}

// splitExt splits on the final dot of the last path segment. URLs without
// an extension keep everything in the stem.
func splitExt(u string) (stem, ext string) {
	slash := strings.LastIndex(u, "/")
	dot := strings.LastIndex(u, ".")
	if dot <= slash {
		return u, ""
	}
	return u[:dot], u[dot:]
}

package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fallbackBaseName is used when nothing survives sanitization
const fallbackBaseName = "image"

var (
	// unicode spaces, vertical tab and BOM count as whitespace too
	whitespaceRun   = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	disallowedChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)
	hyphenRun       = regexp.MustCompile(`-+`)
)

// SplitExtension splits name at its last dot. The extension keeps the dot.
func SplitExtension(name string) (string, string) {
	index := strings.LastIndex(name, ".")
	if index == -1 {
		return name, ""
	}
	return name[:index], name[index:]
}

// SanitizeFilename turns a client supplied filename into a safe, lowercase
// name made of [a-z0-9-_] followed by the lowercased extension.
func SanitizeFilename(originalName string) string {
	base, ext := SplitExtension(originalName)

	folded, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), base)
	if err != nil {
		folded = base
	}

	folded = whitespaceRun.ReplaceAllString(folded, "-")
	folded = disallowedChars.ReplaceAllString(folded, "")
	folded = strings.ToLower(folded)
	folded = hyphenRun.ReplaceAllString(folded, "-")
	folded = strings.Trim(folded, "-")

	if folded == "" {
		folded = fallbackBaseName
	}

	return folded + sanitizeExtension(ext)
}

// sanitizeExtension lowercases ext and keeps letters and digits only, so a
// crafted extension can never smuggle a path separator.
func sanitizeExtension(ext string) string {
	if ext == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('.')
	for _, r := range strings.ToLower(ext[1:]) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 {
		return ""
	}
	return b.String()
}

// TimestampedFilename inserts the millisecond epoch of now before the extension
func TimestampedFilename(name string, now time.Time) string {
	base, ext := SplitExtension(name)
	return fmt.Sprintf("%s-%d%s", base, now.UnixMilli(), ext)
}

// CounterFilename appends -n before the extension
func CounterFilename(name string, n int) string {
	return SuffixedFilename(name, fmt.Sprint(n))
}

// SuffixedFilename inserts "-<suffix>" before the extension of name
func SuffixedFilename(name, suffix string) string {
	base, ext := SplitExtension(name)
	return fmt.Sprintf("%s-%s%s", base, suffix, ext)
}

// ValidateBareFilename rejects empty names and anything able to escape the upload directory.
func ValidateBareFilename(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: filename is required", ErrInvalidFilename)
	case strings.Contains(name, ".."), strings.Contains(name, "/"), strings.Contains(name, `\`):
		return fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	default:
		return nil
	}
}

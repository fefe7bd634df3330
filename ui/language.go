package ui

import (
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"
)

// DetectLanguage returns a lower-case language id ("go", "python") for
// filename, or "" when no lexer claims it.
func DetectLanguage(filename string) string {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return ""
	}
	return strings.ToLower(lexer.Config().Name)
}

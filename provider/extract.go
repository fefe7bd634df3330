package provider

import "strings"

const fence = "```"

// ExtractCode returns the code inside a markdown-fenced answer so it can be
// inserted as-is.
//
// Text without a fence is returned unchanged. Otherwise the result is the
// text between the first and the last fence. If the opening fence is
// followed by a language tag on its own line ("```go\n"), that line is
// dropped, unless it is the only content: "```getUserName\n```" yields
// "getUserName". Leading and trailing line breaks are trimmed. A lone fence
// with no closing partner yields everything after it.
func ExtractCode(text string) string {
	start := strings.Index(text, fence)
	if start < 0 {
		return text
	}
	start += len(fence)

	end := strings.LastIndex(text, fence)
	if end < start {
		end = len(text)
	}

	body := text[start:end]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && isLanguageTag(body[:nl]) {
		if rest := body[nl+1:]; strings.Trim(rest, "\r\n") != "" {
			body = rest
		}
	}

	return strings.Trim(body, "\r\n")
}

// isLanguageTag reports whether the remainder of an opening fence line is an
// info string like "go", "js" or "c++" rather than code.
func isLanguageTag(s string) bool {
	s = strings.TrimSpace(s)
	return !strings.ContainsAny(s, " \t(){};=")
}

// NormalizeModel drops the variant tag from a model identifier:
// "llama3:8b" becomes "llama3".
func NormalizeModel(model string) string {
	name, _, _ := strings.Cut(model, ":")
	return name
}

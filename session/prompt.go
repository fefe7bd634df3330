package session

import (
	"fmt"
	"strings"
)

const promptTemplate = `You're a software developer working on a project of %s, you will be asked on naming functions, classes, variables, etc..., your answer must be an example of code that is not markdown containing naming you're asked about. Your answer must not be markdown, just normal text, and must only include the example of code about naming. The question is "%s"`

// BuildPrompt wraps the user's naming question in the instruction sent to
// the model. languageID names the language of the target file ("go",
// "typescript"); an empty id falls back to "an unspecified language".
func BuildPrompt(languageID, question string) string {
	languageID = strings.TrimSpace(languageID)
	if languageID == "" {
		languageID = "an unspecified language"
	}
	return fmt.Sprintf(promptTemplate, languageID, strings.TrimSpace(question))
}

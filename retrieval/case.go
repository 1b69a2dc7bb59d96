package retrieval

import (
	"strings"
	"unicode"
)

// toSnake converts operation and kind names to snake_case for key namespaces,
// e.g. "GetByID" becomes "get_by_id". Any rune that is not a letter or digit
// collapses into a single underscore, so a namespace never contains the key
// separator.
func toSnake(s string) string {
	runes := []rune(s)
	words := make([]string, 0, 4)
	var word []rune

	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, r := range runes {
		switch {
		case unicode.IsUpper(r):
			// A capital starts a word after a lower case letter or digit, and
			// ends an acronym when the next rune is lower case ("IDList").
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
			word = append(word, r)
		case unicode.IsLetter(r):
			word = append(word, r)
		case unicode.IsDigit(r):
			if i > 0 && !unicode.IsDigit(runes[i-1]) {
				flush()
			}
			word = append(word, r)
		default:
			flush()
		}
	}
	flush()

	return strings.Join(words, "_")
}

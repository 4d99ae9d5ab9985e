package shell

import "strings"

// TokenDelimiters separate words on a command line.
const TokenDelimiters = " \t\r\n\a"

// Tokenize splits a line into words. There is no escaping or quoting, a
// blank line has no tokens.
func Tokenize(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return strings.ContainsRune(TokenDelimiters, r)
	})
}

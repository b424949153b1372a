package securitytxt

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// tokenize splits a payload byte range on NUL boundaries into UTF-8 string
// tokens. Leading and trailing empty tokens are preserved; deciding their
// significance is the assembler's job.
func tokenize(payload []byte) ([]string, error) {
	parts := bytes.Split(payload, []byte{0})
	tokens := make([]string, len(parts))
	for i, p := range parts {
		if !utf8.Valid(p) {
			return nil, newError(KindInvalidEncoding, "SECTXT-TOK-001",
				fmt.Sprintf("token %d is not valid UTF-8", i))
		}
		tokens[i] = string(p)
	}
	return tokens, nil
}

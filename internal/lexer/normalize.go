package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize strips a UTF-8 BOM if present and applies Unicode NFC
// normalization, so lexically equivalent source produces identical token
// streams regardless of encoding variations (spec.md §6: "UTF-8").
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)

	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}

	return src
}

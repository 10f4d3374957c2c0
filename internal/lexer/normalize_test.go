package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStripsBOM(t *testing.T) {
	src := append([]byte{0xEF, 0xBB, 0xBF}, []byte("main = 0\n")...)
	out := Normalize(src)
	assert.Equal(t, "main = 0\n", string(out))
}

func TestNormalizeNFC(t *testing.T) {
	// "e" + combining acute (NFD) should normalize to the precomposed "é" (NFC).
	nfd := "café"
	out := Normalize([]byte(nfd))
	assert.Equal(t, "café", string(out))
}

package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectEncoding(t *testing.T) {
	assert.Equal(t, EncodingUTF8, DetectEncoding([]byte("plain ascii")))
	assert.Equal(t, EncodingUTF8, DetectEncoding([]byte("canción")))
	assert.Equal(t, EncodingUTF8, DetectEncoding([]byte{0xEF, 0xBB, 0xBF, 'a'}))
	// 0xF3 alone is not valid UTF-8
	assert.Equal(t, EncodingWindows1252, DetectEncoding([]byte{'c', 0xF3, 'd'}))
}

func TestDecodeWindows1252(t *testing.T) {
	decoded, err := Decode([]byte{'n', 0xF1, 'u'}, EncodingWindows1252)
	require.NoError(t, err)
	assert.Equal(t, "nñu", decoded)
}

func TestDecodeISO88591(t *testing.T) {
	decoded, err := Decode([]byte{0xE1, 0xE9}, EncodingISO88591)
	require.NoError(t, err)
	assert.Equal(t, "áé", decoded)
}

func TestDecodeStripsBOM(t *testing.T) {
	decoded, err := Decode([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'}, EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "hi", decoded)
}

func TestDecodeValidUTF8Passthrough(t *testing.T) {
	// Already-valid UTF-8 is never re-decoded, even with a legacy hint
	decoded, err := Decode([]byte("señal"), EncodingWindows1252)
	require.NoError(t, err)
	assert.Equal(t, "señal", decoded)
}

package speech

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMIME(t *testing.T) {
	wav := append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 32)...)
	assert.Equal(t, "audio/wave", DetectMIME(wav))

	ogg := append([]byte("OggS\x00"), make([]byte, 32)...)
	assert.Equal(t, "audio/ogg", DetectMIME(ogg))

	assert.Equal(t, "audio/wav", DetectMIME([]byte("not audio at all")))
}

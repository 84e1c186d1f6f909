package decoders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jvegaf/decklib/pkg/decoders/flac"
	"github.com/jvegaf/decklib/pkg/decoders/mp3"
	"github.com/jvegaf/decklib/pkg/decoders/ogg"
	"github.com/jvegaf/decklib/pkg/decoders/opus"
	"github.com/jvegaf/decklib/pkg/decoders/wav"
	"github.com/jvegaf/decklib/pkg/types"
)

// NewDecoder creates and opens the appropriate decoder based on file extension.
// Supports .mp3, .flac, .fla, .wav, .ogg, .oga, and .opus.
//
// .m4a and .aac are recognized by the catalog's format filter but have no
// decoder here: no AAC codec binding exists anywhere in this module's
// dependency set, and decoding an AAC/MP4 container through an unrelated
// codec would silently produce noise rather than audio, so these extensions
// fail fast with an explicit error instead.
func NewDecoder(fileName string) (types.AudioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(fileName))

	var decoder types.AudioDecoder

	switch ext {
	case ".mp3":
		decoder = mp3.NewDecoder()
	case ".flac", ".fla":
		decoder = flac.NewDecoder()
	case ".wav":
		decoder = wav.NewDecoder()
	case ".ogg", ".oga":
		decoder = ogg.NewDecoder()
	case ".opus":
		decoder = opus.NewDecoder()
	case ".m4a", ".aac":
		return nil, fmt.Errorf("unsupported file format: %s (no AAC/MP4 decoder available)", ext)
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .mp3, .flac, .fla, .wav, .ogg, .oga, .opus)", ext)
	}

	if err := decoder.Open(fileName); err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fileName, err)
	}

	return decoder, nil
}

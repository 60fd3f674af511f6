package constants

import "os"

func GetVocabDir() string {
	path := os.Getenv("VOCAB_PATH")
	if path != "" {
		return path
	}
	return "./dataset"
}

// GetModelURL returns the inference endpoint for the trained model.
// Empty means no model is reachable and the pattern fallback is used.
func GetModelURL() string {
	return os.Getenv("MODEL_URL")
}

func GetAssetBucket() string {
	return os.Getenv("ASSET_BUCKET")
}

// MaxSequenceLength is the fixed context length of the model input.
const MaxSequenceLength = 12

const (
	DefaultOctave   = 4
	DefaultTempoBPM = 120
)

const (
	TicksPerQuarter = 480
	NoteVelocity    = 100
)

const MidiMimeType = "audio/midi"

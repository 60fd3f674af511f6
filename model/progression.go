package model

import "time"

// Progression is a finished, ordered chord sequence plus the parameters
// it was generated from. It is plain data; ownership passes to callers.
type Progression struct {
	Id        string    `json:"id"`
	Chords    []string  `json:"chords"`
	Genre     string    `json:"genre"`
	Mood      string    `json:"mood"`
	Key       string    `json:"key"`
	ScaleType string    `json:"scale_type"`
	Octave    int       `json:"octave"`
	CreatedAt time.Time `json:"created_at"`
}

// ModelInput is the fixed-shape numeric input the prediction backend
// consumes. ChordIds always has the configured context length.
type ModelInput struct {
	ChordIds    []int `json:"chord_ids"`
	Position    int   `json:"position"`
	GenreId     int   `json:"genre_id"`
	MoodId      int   `json:"mood_id"`
	KeyId       int   `json:"key_id"`
	ScaleTypeId int   `json:"scale_type_id"`

	// Temperature rides along for backends that gate choices on it
	// themselves (the pattern fallback). The sampling temperature applied
	// by the generator is separate.
	Temperature float64 `json:"temperature"`
}

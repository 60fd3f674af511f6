package model

type GenerateRequestBody struct {
	Genre       string   `json:"genre"`
	Mood        string   `json:"mood"`
	Key         string   `json:"key"`
	ScaleType   string   `json:"scale_type"`
	Length      int      `json:"length"`
	Temperature float64  `json:"temperature"`
	Seed        []string `json:"seed,omitempty"`
}

type ExportRequestBody struct {
	Chords []string `json:"chords"`
	Octave int      `json:"octave"`
	Tempo  int      `json:"tempo"`
}

type PredictRequestBody struct {
	Input ModelInput `json:"input"`
}

type PredictResponse struct {
	Probs []float64 `json:"probs"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/bufyyy/chordai/constants"
	"github.com/bufyyy/chordai/generate"
	"github.com/bufyyy/chordai/midifile"
	"github.com/bufyyy/chordai/model"
	"github.com/bufyyy/chordai/vocab"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the generation API",
	Long:  `Serves the generation API`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

type server struct {
	vocab     *vocab.Vocabulary
	generator *generate.Generator
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

func (s *server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var input model.GenerateRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body: "+err.Error())
		return
	}
	if input.Length <= 0 {
		input.Length = 4
	}
	if input.Temperature == 0 {
		input.Temperature = 1.0
	}

	prog, err := s.generator.Progression(generate.Params{
		Genre:       input.Genre,
		Mood:        input.Mood,
		Key:         input.Key,
		ScaleType:   input.ScaleType,
		Length:      input.Length,
		Temperature: input.Temperature,
		Seed:        input.Seed,
	})
	if err != nil && !errors.Is(err, generate.ErrGenerationFailed) {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	// on a failed step the partial progression is still returned

	json.NewEncoder(w).Encode(prog)
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	var input model.ExportRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse request body: "+err.Error())
		return
	}
	if len(input.Chords) == 0 {
		writeError(w, http.StatusBadRequest, "chords must not be empty")
		return
	}
	if input.Octave == 0 {
		input.Octave = constants.DefaultOctave
	}

	data := midifile.BuildFile(input.Chords, input.Octave, input.Tempo)
	w.Header().Set("Content-Type", constants.MidiMimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="progression.mid"`)
	w.Write(data)
}

func (s *server) handleVocab(w http.ResponseWriter, r *http.Request) {
	res := map[string][]string{
		"genres":      s.vocab.Tokens(vocab.NamespaceGenre),
		"moods":       s.vocab.Tokens(vocab.NamespaceMood),
		"keys":        s.vocab.Tokens(vocab.NamespaceKey),
		"scale_types": s.vocab.Tokens(vocab.NamespaceScaleType),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

func serve() {
	v, err := loadVocabulary()
	cobra.CheckErr(err)
	s := server{vocab: v, generator: newGenerator(v)}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/generate", s.handleGenerate).Methods("POST")
	router.HandleFunc("/export", s.handleExport).Methods("POST")
	router.HandleFunc("/vocab", s.handleVocab).Methods("GET")

	fmt.Printf("Listening on %v\n", serveAddr)
	log.Fatal(http.ListenAndServe(serveAddr, cors.Default().Handler(router)))
}

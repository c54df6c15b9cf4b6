package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"jee-solver/internal/solve"
	"jee-solver/internal/util"
	"jee-solver/web"
)

// solveTimeout bounds a single external model call (two for the image
// path). The library default is too short for long chains of reasoning.
const solveTimeout = 180 * time.Second

// maxImageBytes caps uploads at 8 MiB.
const maxImageBytes = 8 << 20

// minQuestionLen rejects fragments on the form path before any external
// call ("x=" is not a solvable question).
const minQuestionLen = 10

// Index renders the question form.
func (s *Server) Index(w http.ResponseWriter, req *http.Request) {
	s.renderIndex(w, req, http.StatusOK, "")
}

// SolveForm handles the HTML form submission: typed question or uploaded
// image, plus the engine choice.
func (s *Server) SolveForm(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxImageBytes); err != nil {
		s.renderIndex(w, req, http.StatusBadRequest, "Could not read the submitted form.")
		return
	}

	engName := strings.TrimSpace(req.FormValue("engine"))
	if engName == "" {
		engName = s.enginePref(req)
	}
	eng, err := s.engines.Get(engName)
	if err != nil {
		s.renderIndex(w, req, http.StatusBadRequest, "Unknown model engine: "+engName)
		return
	}
	s.rememberEngine(w, req, engName)

	question := strings.TrimSpace(req.FormValue("question"))
	image, imgErr := s.readImage(req)
	if imgErr != "" {
		s.renderIndex(w, req, http.StatusBadRequest, imgErr)
		return
	}

	if question == "" && image == nil {
		s.renderIndex(w, req, http.StatusBadRequest, "Please enter a math question or upload an image.")
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), solveTimeout)
	defer cancel()

	var (
		sol *solve.Solution
		raw string
	)
	if image != nil {
		sol, raw, question, err = solve.SolveImage(ctx, eng, image.data, image.mime)
	} else {
		if len(question) < minQuestionLen {
			s.renderIndex(w, req, http.StatusBadRequest, "Please enter a complete math question.")
			return
		}
		sol, raw, err = solve.Solve(ctx, eng, question)
	}
	if err != nil {
		status, msg := s.mapError(err)
		s.renderError(w, status, msg)
		return
	}

	rawHTML, err := web.MarkdownHTML(raw)
	if err != nil {
		s.log.Error("render raw response", "error", err)
		s.renderError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Solution(w, web.SolutionData{
		Solution:  sol,
		RawHTML:   rawHTML,
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
		Engine:    eng.Name() + " (" + eng.GetModel() + ")",
	}); err != nil {
		s.log.Error("render solution page", "error", err)
	}
}

// APISolveRequest is the JSON body of POST /api/solve.
type APISolveRequest struct {
	Question string `json:"question"`
	LLMName  string `json:"llm_name,omitempty"`
}

// APISolve handles the JSON endpoint.
func (s *Server) APISolve(w http.ResponseWriter, req *http.Request) {
	var body APISolveRequest
	dec := json.NewDecoder(io.LimitReader(req.Body, 1<<20))
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "bad json: " + err.Error(),
		})
		return
	}

	if strings.TrimSpace(body.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Question cannot be empty",
		})
		return
	}

	eng, err := s.engines.Get(body.LLMName)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	ctx, cancel := context.WithTimeout(req.Context(), solveTimeout)
	defer cancel()

	sol, raw, err := solve.Solve(ctx, eng, body.Question)
	if err != nil {
		status, msg := s.mapError(err)
		writeJSON(w, status, map[string]any{
			"success": false,
			"error":   msg,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"solution":     sol,
		"raw_response": raw,
	})
}

// Health is the liveness endpoint.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "JEE Math Solver",
	})
}

type uploadedImage struct {
	data []byte
	mime string
}

// readImage pulls the optional image out of the multipart form. The second
// return value is a user-facing error message; empty means ok. A missing
// file is (nil, "").
func (s *Server) readImage(req *http.Request) (*uploadedImage, string) {
	file, header, err := req.FormFile("image_file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, ""
	}
	if err != nil {
		return nil, "Could not read the uploaded image."
	}
	defer file.Close()

	if !util.AllowedImageFile(header.Filename) {
		return nil, "Invalid file type. Only PNG, JPG, and JPEG are allowed."
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil || len(data) == 0 {
		return nil, "Could not read the uploaded image."
	}
	if len(data) > maxImageBytes {
		return nil, "Image is too large (8 MiB max)."
	}

	mime := util.SniffMimeHTTP(data)
	if mime != "image/jpeg" && mime != "image/png" {
		return nil, "Invalid file type. Only PNG, JPG, and JPEG are allowed."
	}
	return &uploadedImage{data: data, mime: mime}, ""
}

// mapError translates pipeline errors into an HTTP status and a message
// safe to show the caller. Upstream faults stay generic; input and
// validation failures carry detail.
func (s *Server) mapError(err error) (int, string) {
	var (
		engErr *solve.ErrEngineUnavailable
		invErr *solve.ErrInvalidResponse
	)
	switch {
	case errors.Is(err, solve.ErrEmptyQuestion):
		return http.StatusBadRequest, "Question cannot be empty"
	case errors.As(err, &invErr):
		s.log.Error("model returned non-conforming payload", "error", err)
		return http.StatusBadGateway, "The AI provided an invalid response format: " + invErr.Err.Error()
	case errors.As(err, &engErr):
		s.log.Error("model engine failure", "engine", engErr.Engine, "error", err)
		return http.StatusBadGateway, "The AI service is currently unavailable. Please try again."
	default:
		s.log.Error("unexpected solve failure", "error", err)
		return http.StatusInternalServerError, "An unexpected error occurred. Please try again."
	}
}

func (s *Server) renderIndex(w http.ResponseWriter, req *http.Request, status int, banner string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderer.Index(w, web.IndexData{
		Error:   banner,
		Engine:  s.enginePref(req),
		Engines: s.availableEngines(),
	}); err != nil {
		s.log.Error("render index page", "error", err)
	}
}

func (s *Server) renderError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderer.Error(w, message); err != nil {
		s.log.Error("render error page", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

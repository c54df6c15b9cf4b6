package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jee-solver/internal/config"
	"jee-solver/internal/engine"
	"jee-solver/web"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const derivativeQuestion = "Find the derivative of f(x) = x^3 + 2x^2 - 5x + 1"

const solutionPayload = `{
	"question": "Find the derivative of f(x) = x^3 + 2x^2 - 5x + 1",
	"solution_steps": ["Apply the power rule to each term.", "Combine the results."],
	"final_answer": "f'(x) = 3x^2 + 4x - 5",
	"difficulty_level": "Easy",
	"topic": "Calculus"
}`

func newTestServer(t *testing.T, responses ...engine.MockResponse) (http.Handler, *engine.Mock) {
	t.Helper()

	mock := engine.NewMock(responses...)
	engines := &engine.Engines{Gemini: mock, Default: "gemini"}

	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	cfg := &config.Config{
		Port:          "8000",
		SecretKey:     "test-secret",
		GeminiAPIKey:  "test-key",
		GeminiModel:   "test-model",
		DefaultEngine: "gemini",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, engines, renderer, logger).Router(), mock
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type apiResponse struct {
	Success  bool `json:"success"`
	Solution struct {
		Question        string   `json:"question"`
		SolutionSteps   []string `json:"solution_steps"`
		FinalAnswer     string   `json:"final_answer"`
		DifficultyLevel string   `json:"difficulty_level"`
		Topic           string   `json:"topic"`
	} `json:"solution"`
	RawResponse string `json:"raw_response"`
	Error       string `json:"error"`
}

func TestAPISolve_Success(t *testing.T) {
	h, _ := newTestServer(t, engine.MockResponse{Text: solutionPayload})

	rec := postJSON(t, h, "/api/solve", map[string]string{"question": derivativeQuestion})
	require.Equal(t, http.StatusOK, rec.Code)

	var out apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Solution.Question)
	assert.NotEmpty(t, out.Solution.SolutionSteps)
	assert.NotEmpty(t, out.Solution.FinalAnswer)
	assert.NotEmpty(t, out.Solution.DifficultyLevel)
	assert.NotEmpty(t, out.Solution.Topic)
	assert.NotEmpty(t, out.RawResponse)
}

func TestAPISolve_EmptyQuestionRejectedBeforeExternalCall(t *testing.T) {
	h, mock := newTestServer(t, engine.MockResponse{Text: solutionPayload})

	rec := postJSON(t, h, "/api/solve", map[string]string{"question": "   "})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var out apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Success)
	assert.NotEmpty(t, out.Error)
	assert.Zero(t, mock.CallCount())
}

func TestAPISolve_MissingQuestionField(t *testing.T) {
	h, _ := newTestServer(t)

	rec := postJSON(t, h, "/api/solve", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPISolve_NonJSONModelOutput(t *testing.T) {
	h, _ := newTestServer(t, engine.MockResponse{Text: "Sorry, I answered in prose."})

	rec := postJSON(t, h, "/api/solve", map[string]string{"question": derivativeQuestion})
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var out apiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "invalid response format")
}

func TestAPISolve_UnknownEngine(t *testing.T) {
	h, _ := newTestServer(t)

	rec := postJSON(t, h, "/api/solve", map[string]string{
		"question": derivativeQuestion,
		"llm_name": "claude",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPISolve_UnconfiguredEngine(t *testing.T) {
	h, _ := newTestServer(t)

	rec := postJSON(t, h, "/api/solve", map[string]string{
		"question": derivativeQuestion,
		"llm_name": "gpt",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var out map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "healthy", out["status"])
}

func TestIndex(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<form")
	assert.Contains(t, rec.Body.String(), "name=\"question\"")
}

func TestNotFound(t *testing.T) {
	h, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartForm(t *testing.T, fields map[string]string, fileField, filename string, fileBody []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(fileBody)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postForm(t *testing.T, h http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/solve", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSolveForm_TextSuccessRoundTrip(t *testing.T) {
	h, _ := newTestServer(t, engine.MockResponse{Text: solutionPayload})

	body, ct := multipartForm(t, map[string]string{"question": derivativeQuestion}, "", "", nil)
	rec := postForm(t, h, body, ct)
	require.Equal(t, http.StatusOK, rec.Code)

	page := rec.Body.String()
	// The rendered page carries the same step count and final answer as
	// the validated record.
	assert.Equal(t, 2, strings.Count(page, "<li>"))
	assert.Contains(t, page, "3x^2 + 4x - 5")
	assert.Contains(t, page, "Easy")
	assert.Contains(t, page, "Calculus")
}

func TestSolveForm_ShortQuestion(t *testing.T) {
	h, mock := newTestServer(t, engine.MockResponse{Text: solutionPayload})

	body, ct := multipartForm(t, map[string]string{"question": "x="}, "", "", nil)
	rec := postForm(t, h, body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, mock.CallCount())
}

func TestSolveForm_NoInput(t *testing.T) {
	h, _ := newTestServer(t)

	body, ct := multipartForm(t, map[string]string{}, "", "", nil)
	rec := postForm(t, h, body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "enter a math question or upload an image")
}

func TestSolveForm_UnsupportedImageFormat(t *testing.T) {
	h, mock := newTestServer(t)

	body, ct := multipartForm(t, nil, "image_file", "scan.gif", []byte("GIF89a..."))
	rec := postForm(t, h, body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only PNG, JPG, and JPEG are allowed")
	assert.Zero(t, mock.ExtractCalls)
}

func TestSolveForm_MismatchedImageBytes(t *testing.T) {
	h, mock := newTestServer(t)

	// .png name, GIF bytes: sniffing wins over the extension.
	body, ct := multipartForm(t, nil, "image_file", "scan.png", []byte("GIF89a..."))
	rec := postForm(t, h, body, ct)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, mock.ExtractCalls)
}

func TestSolveForm_ImageSuccess(t *testing.T) {
	h, mock := newTestServer(t,
		engine.MockResponse{Text: derivativeQuestion},
		engine.MockResponse{Text: solutionPayload},
	)

	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x01}
	body, ct := multipartForm(t, nil, "image_file", "problem.png", png)
	rec := postForm(t, h, body, ct)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "3x^2 + 4x - 5")
	assert.Equal(t, 1, mock.ExtractCalls)
	assert.Equal(t, 1, mock.CallCount())
}

func TestSolveForm_EngineFailureIsGeneric(t *testing.T) {
	h, _ := newTestServer(t) // empty mock queue -> engine error

	body, ct := multipartForm(t, map[string]string{"question": derivativeQuestion}, "", "", nil)
	rec := postForm(t, h, body, ct)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "currently unavailable")
}

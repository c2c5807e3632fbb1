package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jhoicas/VozDocs-api/internal/application/ports"
)

// Verificar en tiempo de compilación que OpenAIService implementa ambos puertos.
var (
	_ ports.LLMService           = (*OpenAIService)(nil)
	_ ports.TranscriptionService = (*OpenAIService)(nil)
)

const (
	openAIChatURL       = "https://api.openai.com/v1/chat/completions"
	openAITranscribeURL = "https://api.openai.com/v1/audio/transcriptions"

	// openAISystemPrompt fija el rol; las reglas de extracción viajan en el
	// prompt de usuario que arma la capa de aplicación.
	openAISystemPrompt = "You are a precise data extraction engine. Respond ONLY with a single valid JSON object, no markdown, no code blocks, no commentary."
)

// OpenAIService adaptador que implementa LLMService (chat completions) y
// TranscriptionService (Whisper) usando la API REST de OpenAI.
// Usa net/http de la librería estándar de Go; no requiere el SDK oficial.
type OpenAIService struct {
	apiKey       string
	model        string
	whisperModel string
	httpClient   *http.Client
}

// NewOpenAIService construye el adaptador.
// model suele ser "gpt-4o-mini"; whisperModel, "whisper-1".
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewOpenAIService(apiKey, model, whisperModel string) *OpenAIService {
	return &OpenAIService{
		apiKey:       apiKey,
		model:        model,
		whisperModel: whisperModel,
		httpClient: &http.Client{
			// Timeout de red de 90 s; cubre audios largos en Whisper.
			// El use case impone además su propio context.WithTimeout.
			Timeout: 90 * time.Second,
		},
	}
}

// ── Estructuras internas del protocolo Chat Completions ───────────────────────

type openAIChatRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// responseFormat con type=json_object obliga al modelo a devolver JSON puro.
type responseFormat struct {
	Type string `json:"type"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *openAIError `json:"error"`
}

type openAIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type openAITranscribeResponse struct {
	Text  string       `json:"text"`
	Error *openAIError `json:"error"`
}

// ── Implementación de los puertos ─────────────────────────────────────────────

// CompleteJSON envía el prompt al modelo y devuelve el objeto JSON de la
// respuesta. Ante rate limit o error 5xx hace un único reintento.
func (s *OpenAIService) CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}

	payload := openAIChatRequest{
		Model: s.model,
		Messages: []openAIMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature:    0.2, // baja temperatura para extracciones más deterministas
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("AI: serializar request: %w", err)
	}

	raw, err := s.completeOnce(ctx, body)
	if err != nil {
		var te *transientError
		if errors.As(err, &te) {
			if slErr := sleepCtx(ctx, retryDelay); slErr != nil {
				return nil, fmt.Errorf("AI: timeout o cancelación: %w", slErr)
			}
			raw, err = s.completeOnce(ctx, body)
		}
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// transientError marca un fallo reintetable (rate limit, 5xx).
type transientError struct{ err error }

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func (s *OpenAIService) completeOnce(ctx context.Context, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return nil, &transientError{fmt.Errorf("AI: llamada HTTP fallida: %w", err)}
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 256*1024))
	if err != nil {
		return nil, fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAIChatResponse
		httpErr := fmt.Errorf("AI: OpenAI HTTP %d", resp.StatusCode)
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			httpErr = fmt.Errorf("AI: OpenAI error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		if isTransientStatus(resp.StatusCode) {
			return nil, &transientError{httpErr}
		}
		return nil, httpErr
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(rawBody, &chatResp); err != nil {
		return nil, fmt.Errorf("AI: deserializar respuesta OpenAI: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("AI: OpenAI devolvió respuesta vacía")
	}

	// Parseo seguro: extraer solo el bloque JSON aunque el modelo añada texto.
	cleanJSON := extractJSON(chatResp.Choices[0].Message.Content)
	if cleanJSON == "" {
		return nil, fmt.Errorf("AI: no se encontró JSON en la respuesta del modelo (respuesta: %s)", chatResp.Choices[0].Message.Content)
	}
	return json.RawMessage(cleanJSON), nil
}

// Transcribe envía el audio a Whisper y devuelve el texto transcrito.
func (s *OpenAIService) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: OPENAI_API_KEY no configurado")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("AI: armar multipart: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("AI: copiar audio: %w", err)
	}
	if err := mw.WriteField("model", s.whisperModel); err != nil {
		return "", fmt.Errorf("AI: armar multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("AI: cerrar multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAITranscribeURL, &buf)
	if err != nil {
		return "", fmt.Errorf("AI: crear HTTP request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return "", fmt.Errorf("AI: leer respuesta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp openAITranscribeResponse
		if jsonErr := json.Unmarshal(rawBody, &errResp); jsonErr == nil && errResp.Error != nil {
			return "", fmt.Errorf("AI: Whisper error (%s): %s", errResp.Error.Type, errResp.Error.Message)
		}
		return "", fmt.Errorf("AI: Whisper HTTP %d", resp.StatusCode)
	}

	var tr openAITranscribeResponse
	if err := json.Unmarshal(rawBody, &tr); err != nil {
		return "", fmt.Errorf("AI: deserializar transcripción: %w", err)
	}
	if tr.Text == "" {
		return "", fmt.Errorf("AI: Whisper devolvió transcripción vacía")
	}
	return tr.Text, nil
}

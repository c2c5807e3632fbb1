package ports

import (
	"context"
	"encoding/json"
	"io"
)

// LLMService define el puerto de salida para los modelos de lenguaje.
// Cualquier adaptador (OpenAI, Gemini, mock) debe implementar esta interfaz.
// Siguiendo el principio de inversión de dependencias (DIP), la capa de
// aplicación solo conoce este contrato, no la implementación concreta.
type LLMService interface {
	// CompleteJSON envía el prompt y devuelve el cuerpo JSON crudo de la
	// respuesta (sin fences de markdown). El contexto debe llevar un timeout
	// para evitar bloqueos en llamadas externas.
	CompleteJSON(ctx context.Context, prompt string) (json.RawMessage, error)
}

// TranscriptionService define el puerto de salida para speech-to-text.
type TranscriptionService interface {
	// Transcribe convierte un archivo de audio en texto. filename conserva
	// la extensión original porque el proveedor la usa para detectar formato.
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

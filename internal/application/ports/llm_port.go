package ports

import "context"

// LLMService define el puerto de salida hacia un modelo de lenguaje.
// El chatbot lo usa solo como respaldo cuando ninguna regla coincide.
type LLMService interface {
	// Answer responde brevemente a la pregunta del cliente dentro del contexto de la tienda.
	// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
	Answer(ctx context.Context, storeContext, question string) (string, error)
}

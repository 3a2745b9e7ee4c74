// Package chatbot responde mensajes del asistente de la tienda con reglas por
// palabra clave, sin estado entre mensajes.
package chatbot

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode"

	"github.com/jhoicas/brownson-api/internal/application/ports"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/entity"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
	"github.com/jhoicas/brownson-api/pkg/logger"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Respuestas fijas.
const (
	ReplyLoginRequired = "User not identified. Please log in to use this feature."
	ReplyNoItem        = "Sorry, we don't currently have that item."
	ReplyEmptyCart     = "Your cart is empty."
	ReplyNoOrders      = "You have no orders yet."
	ReplyFailure       = "Something went wrong. Please try again later."
)

const (
	fallbackTag = "fallback"
	llmTimeout  = 10 * time.Second
)

//go:embed intents.json
var intentsJSON []byte

// Intent entrada de la tabla estática de intenciones.
type Intent struct {
	Tag       string   `json:"tag"`
	Patterns  []string `json:"patterns"`
	Responses []string `json:"responses"`
}

// palabras de relleno que se descartan al extraer el producto buscado.
var fillerWords = map[string]struct{}{
	"do": {}, "you": {}, "we": {}, "is": {}, "are": {}, "there": {}, "any": {}, "some": {},
	"a": {}, "an": {}, "the": {}, "it": {}, "in": {}, "stock": {}, "please": {}, "still": {},
	"currently": {}, "now": {}, "today": {}, "i": {}, "want": {}, "need": {}, "can": {}, "get": {},
}

// Option configura el caso de uso.
type Option func(*UseCase)

// WithLLM activa el respaldo con LLM cuando ninguna regla coincide.
func WithLLM(llm ports.LLMService) Option {
	return func(uc *UseCase) { uc.llm = llm }
}

// WithPicker reemplaza la elección aleatoria de respuestas (tests).
func WithPicker(pick func(n int) int) Option {
	return func(uc *UseCase) { uc.pick = pick }
}

// UseCase despacha cada mensaje según reglas en orden de prioridad.
type UseCase struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	orders   repository.OrderRepository
	intents  []Intent
	fallback Intent
	llm      ports.LLMService
	pick     func(n int) int
	log      *logger.Logger
}

// NewUseCase carga la tabla de intenciones embebida.
func NewUseCase(
	products repository.ProductRepository,
	carts repository.CartRepository,
	orders repository.OrderRepository,
	log *logger.Logger,
	opts ...Option,
) (*UseCase, error) {
	if log == nil {
		log = logger.Nop()
	}
	var table struct {
		Intents []Intent `json:"intents"`
	}
	if err := json.Unmarshal(intentsJSON, &table); err != nil {
		return nil, fmt.Errorf("chatbot: leer intents: %w", err)
	}
	uc := &UseCase{
		products: products,
		carts:    carts,
		orders:   orders,
		pick:     rand.IntN,
		log:      log.Component("chatbot"),
	}
	for _, in := range table.Intents {
		if in.Tag == fallbackTag {
			uc.fallback = in
			continue
		}
		for i, p := range in.Patterns {
			in.Patterns[i] = Normalize(p)
		}
		uc.intents = append(uc.intents, in)
	}
	if len(uc.fallback.Responses) == 0 {
		return nil, fmt.Errorf("chatbot: falta la intención %q", fallbackTag)
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc, nil
}

// Reply responde al mensaje. userID vacío significa visitante anónimo.
//
// Prioridad: have/available → catálogo; cart → carrito; order/track → último
// pedido; tabla de intenciones; fallback.
func (uc *UseCase) Reply(ctx context.Context, userID, message string) (string, error) {
	msg := Normalize(message)
	if msg == "" {
		return "", domain.Errorf(domain.ErrInvalidInput, "Message is required")
	}

	switch {
	case strings.Contains(msg, "have") || strings.Contains(msg, "available"):
		return uc.lookupProduct(ctx, msg)
	case strings.Contains(msg, "cart"):
		if userID == "" {
			return ReplyLoginRequired, nil
		}
		return uc.cartSummary(ctx, userID)
	case strings.Contains(msg, "order") || strings.Contains(msg, "track"):
		if userID == "" {
			return ReplyLoginRequired, nil
		}
		return uc.latestOrder(ctx, userID)
	}

	for _, in := range uc.intents {
		for _, p := range in.Patterns {
			if p != "" && strings.Contains(msg, p) {
				return uc.random(in.Responses), nil
			}
		}
	}
	return uc.fallbackReply(ctx, message), nil
}

func (uc *UseCase) lookupProduct(ctx context.Context, msg string) (string, error) {
	keyword := ExtractKeyword(msg)
	if keyword == "" {
		return ReplyNoItem, nil
	}
	found, err := uc.products.Search(ctx, keyword, 1)
	if err != nil {
		return "", fmt.Errorf("chatbot: buscar producto: %w", err)
	}
	if len(found) == 0 {
		return ReplyNoItem, nil
	}
	p := found[0]
	return fmt.Sprintf("Yes, we have %s in the %q category for Rs. %s.", p.Name, string(p.Category), p.Price.String()), nil
}

func (uc *UseCase) cartSummary(ctx context.Context, userID string) (string, error) {
	items, err := uc.carts.ListByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("chatbot: leer carrito: %w", err)
	}
	if len(items) == 0 {
		return ReplyEmptyCart, nil
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (x%d)", it.ProductName, it.Quantity))
	}
	return fmt.Sprintf("You have: %s in your cart.", strings.Join(parts, ", ")), nil
}

func (uc *UseCase) latestOrder(ctx context.Context, userID string) (string, error) {
	order, err := uc.orders.LatestByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("chatbot: leer pedidos: %w", err)
	}
	if order == nil {
		return ReplyNoOrders, nil
	}
	return fmt.Sprintf("Your latest order (#%s) is currently: %q.", order.ID, string(order.OrderStatus)), nil
}

// fallbackReply consulta al LLM si está configurado; ante cualquier fallo usa la respuesta fija.
func (uc *UseCase) fallbackReply(ctx context.Context, question string) string {
	if uc.llm == nil {
		return uc.random(uc.fallback.Responses)
	}
	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	answer, err := uc.llm.Answer(ctx, storeContext(), question)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			uc.log.Warn().Err(err).Msg("respaldo LLM falló, se usa la respuesta fija")
		}
		return uc.random(uc.fallback.Responses)
	}
	return strings.TrimSpace(answer)
}

func (uc *UseCase) random(responses []string) string {
	if len(responses) == 0 {
		return ""
	}
	return responses[uc.pick(len(responses))]
}

func storeContext() string {
	cats := make([]string, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		cats = append(cats, string(c))
	}
	return "Brownson is an online store for baking and dessert supplies. Categories: " +
		strings.Join(cats, ", ") + ". Payment by card or cash on delivery."
}

// Normalize pasa a minúsculas, quita acentos y colapsa espacios.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// ExtractKeyword devuelve lo que sigue a "have" sin la palabra "available",
// puntuación ni palabras de relleno.
func ExtractKeyword(msg string) string {
	if i := strings.LastIndex(msg, "have"); i >= 0 {
		msg = msg[i+len("have"):]
	}
	msg = strings.ReplaceAll(msg, "available", " ")
	words := strings.FieldsFunc(msg, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	kept := words[:0]
	for _, w := range words {
		if _, filler := fillerWords[w]; !filler {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). La capa HTTP traduce cada uno a su status.
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrUnauthorized = errors.New("no autorizado")
	ErrTokenExpired = errors.New("token expirado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrUnavailable  = errors.New("servicio no disponible")
)

// DetailedError asocia un error de dominio con el mensaje que ve el cliente.
type DetailedError struct {
	Kind    error
	Message string
}

func (e *DetailedError) Error() string {
	return e.Message
}

func (e *DetailedError) Unwrap() error {
	return e.Kind
}

// Errorf construye un DetailedError del tipo kind con un mensaje formateado.
func Errorf(kind error, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &DetailedError{Kind: kind, Message: msg}
}

// PublicMessage devuelve el mensaje para el cliente si err lo trae; si no, fallback.
func PublicMessage(err error, fallback string) string {
	var de *DetailedError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}

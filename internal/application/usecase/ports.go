package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/jhoicas/brownson-api/internal/domain/repository"
)

// ReviewTxRunner ejecuta el alta/baja de una reseña y el recálculo de agregados en una sola transacción.
type ReviewTxRunner interface {
	RunReview(ctx context.Context, fn func(
		products repository.ProductRepository,
		reviews repository.ReviewRepository,
	) error) error
}

// ParseID valida que id sea un UUID y lo devuelve en forma canónica (minúsculas,
// sin llaves ni prefijo urn). Si no es válido, error 400 con el nombre del recurso.
func ParseID(id, resource string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", domain.Errorf(domain.ErrInvalidInput, "Invalid %s ID format", resource)
	}
	return u.String(), nil
}

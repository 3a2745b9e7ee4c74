package ports

import "context"

// FileStorage guarda archivos subidos y devuelve la referencia pública (ruta relativa o URL).
type FileStorage interface {
	// Put guarda data bajo folder/filename y devuelve la referencia a persistir.
	Put(ctx context.Context, folder, filename, contentType string, data []byte) (string, error)
	// Delete elimina el objeto referenciado. Referencias desconocidas se ignoran.
	Delete(ctx context.Context, ref string) error
}

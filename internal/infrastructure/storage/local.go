// Package storage contiene los adaptadores de ports.FileStorage: disco local
// servido como estático y almacenamiento compatible con S3.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jhoicas/brownson-api/internal/application/ports"
)

var _ ports.FileStorage = (*LocalDisk)(nil)

// LocalDisk guarda bajo root y devuelve referencias relativas con el prefijo público (ej. /img/product/x.jpg).
type LocalDisk struct {
	root      string
	urlPrefix string
}

// NewLocalDisk crea el directorio raíz si no existe.
func NewLocalDisk(root, urlPrefix string) (*LocalDisk, error) {
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("storage/local: getwd: %w", err)
		}
		root = filepath.Join(cwd, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", root, err)
	}
	return &LocalDisk{root: root, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Root directorio absoluto que el servidor HTTP publica bajo el prefijo.
func (d *LocalDisk) Root() string { return d.root }

// Put escribe el archivo y devuelve prefijo/folder/filename.
func (d *LocalDisk) Put(_ context.Context, folder, filename, _ string, data []byte) (string, error) {
	rel, err := safeJoin(folder, filename)
	if err != nil {
		return "", err
	}
	full := filepath.Join(d.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage/local: mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("storage/local: write %s: %w", rel, err)
	}
	return d.urlPrefix + "/" + rel, nil
}

// Delete elimina el archivo si la referencia pertenece a este disco; las demás se ignoran.
func (d *LocalDisk) Delete(_ context.Context, ref string) error {
	rel, ok := strings.CutPrefix(ref, d.urlPrefix+"/")
	if !ok || rel == "" {
		return nil
	}
	clean := path.Clean(rel)
	if strings.HasPrefix(clean, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(clean)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage/local: delete %s: %w", clean, err)
	}
	return nil
}

// safeJoin une folder/filename rechazando rutas que escapen de la raíz.
func safeJoin(folder, filename string) (string, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) {
		return "", fmt.Errorf("storage: nombre de archivo inválido %q", filename)
	}
	rel := path.Clean(path.Join(strings.Trim(folder, "/"), filename))
	if strings.HasPrefix(rel, "..") || strings.HasPrefix(rel, "/") {
		return "", fmt.Errorf("storage: ruta inválida %q", rel)
	}
	return rel, nil
}

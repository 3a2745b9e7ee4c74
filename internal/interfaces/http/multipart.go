package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/brownson-api/internal/application/dto"
	"github.com/jhoicas/brownson-api/internal/domain"
	"github.com/shopspring/decimal"
)

// maxUploadBytes tamaño máximo por archivo subido.
const maxUploadBytes = 5 << 20

// formFiles devuelve los archivos del campo indicado; sin multipart devuelve nil.
func formFiles(c *fiber.Ctx, field string) ([]dto.Upload, error) {
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, invalidBody()
	}
	headers := form.File[field]
	out := make([]dto.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, up)
	}
	return out, nil
}

func readUpload(fh *multipart.FileHeader) (dto.Upload, error) {
	if fh.Size > maxUploadBytes {
		return dto.Upload{}, domain.Errorf(domain.ErrInvalidInput, "File %s is too large", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return dto.Upload{}, fmt.Errorf("abrir archivo subido: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return dto.Upload{}, fmt.Errorf("leer archivo subido: %w", err)
	}
	return dto.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

// formString nil si el campo no vino en el formulario.
func formString(c *fiber.Ctx, field string) *string {
	raw := c.Request().PostArgs().Peek(field)
	if raw == nil {
		if form, err := c.MultipartForm(); err == nil {
			if vals, ok := form.Value[field]; ok && len(vals) > 0 {
				v := vals[0]
				return &v
			}
		}
		return nil
	}
	v := string(raw)
	return &v
}

func formDecimal(c *fiber.Ctx, field, label string) (*decimal.Decimal, error) {
	s := formString(c, field)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Invalid %s", label)
	}
	return &d, nil
}

func formInt(c *fiber.Ctx, field, label string) (*int, error) {
	s := formString(c, field)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, domain.Errorf(domain.ErrInvalidInput, "Invalid %s", label)
	}
	return &n, nil
}

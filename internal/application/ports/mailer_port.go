package ports

import "context"

// Mailer envía correos HTML.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

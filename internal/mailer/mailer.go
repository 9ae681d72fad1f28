package mailer

import "context"

// Provider defines the outbound transactional-email operations used by
// the app. One call corresponds to exactly one provider request; there
// is no retrying or batching at this level.
type Provider interface {
	// Send delivers one email and returns the provider's delivery id.
	Send(ctx context.Context, to []string, subject, html string) (string, error)
}

// Mailer wraps a provider with a stable API.
type Mailer struct {
	provider Provider
}

// New constructs a Mailer for the provided backend.
func New(provider Provider) *Mailer {
	return &Mailer{provider: provider}
}

// Send delivers one email through the configured provider.
func (m *Mailer) Send(ctx context.Context, to []string, subject, html string) (string, error) {
	return m.provider.Send(ctx, to, subject, html)
}

package lib

import (
	"fmt"
	"strings"

	"lumino_server/structs"
)

// MaskEmail redacts an email address for logging. The first two and the last
// character of the local part survive, the rest is replaced:
// "joanne@example.com" becomes "jo***e@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}

	local := email[:at]
	domain := email[at:]

	if len(local) <= 3 {
		return local[:1] + "***" + domain
	}
	return local[:2] + "***" + local[len(local)-1:] + domain
}

// ValidateEmailPayload rejects a payload before it reaches the provider.
// Callers should Normalize first so whitespace-only fields fail here.
func ValidateEmailPayload(p *structs.EmailPayload) error {
	if p == nil {
		return fmt.Errorf("%w: payload is nil", ErrInvalidPayload)
	}
	if len(p.To) == 0 {
		return fmt.Errorf("%w: no recipients", ErrInvalidPayload)
	}
	if len(p.From) == 0 {
		return fmt.Errorf("%w: no sender", ErrInvalidPayload)
	}

	for _, a := range p.To {
		if err := validate.Var(a.Email, "required,email"); err != nil {
			return fmt.Errorf("%w: invalid recipient address %q", ErrInvalidPayload, MaskEmail(a.Email))
		}
	}
	for _, a := range p.From {
		if err := validate.Var(a.Email, "required,email"); err != nil {
			return fmt.Errorf("%w: invalid sender address %q", ErrInvalidPayload, MaskEmail(a.Email))
		}
	}

	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidPayload)
	}
	if strings.TrimSpace(p.Html) == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidPayload)
	}

	return nil
}

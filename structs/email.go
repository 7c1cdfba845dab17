package structs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EmailAddress is one recipient or sender, optionally with a display name.
type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// String renders the address in RFC 5322 style ("Name <email>") when a
// display name is present.
func (a EmailAddress) String() string {
	if a.Name != "" {
		return fmt.Sprintf("%s <%s>", a.Name, a.Email)
	}
	return a.Email
}

// AddressList accepts the three wire shapes the email payload allows for an
// address field: a bare string, a list of strings, or a list of
// {email, name} objects (mixed lists included).
type AddressList []EmailAddress

func (l *AddressList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = AddressList{{Email: s}}
		return nil
	case '{':
		var a EmailAddress
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		*l = AddressList{a}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		out := make(AddressList, 0, len(raw))
		for _, item := range raw {
			item = bytes.TrimSpace(item)
			if len(item) > 0 && item[0] == '"' {
				var s string
				if err := json.Unmarshal(item, &s); err != nil {
					return err
				}
				out = append(out, EmailAddress{Email: s})
				continue
			}
			var a EmailAddress
			if err := json.Unmarshal(item, &a); err != nil {
				return err
			}
			out = append(out, a)
		}
		*l = out
		return nil
	}

	return fmt.Errorf("address field must be a string, an object, or a list")
}

// Strings returns the rendered form of every address in the list.
func (l AddressList) Strings() []string {
	out := make([]string, 0, len(l))
	for _, a := range l {
		out = append(out, a.String())
	}
	return out
}

// First returns the rendered first address, or "" for an empty list.
func (l AddressList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0].String()
}

// EmailPayload is the message handed to the transactional email provider.
type EmailPayload struct {
	To      AddressList `json:"to"`
	From    AddressList `json:"from"`
	Subject string      `json:"subject"`
	Html    string      `json:"html"`
	Text    string      `json:"text,omitempty"`
}

// Normalize trims whitespace from every address field. Runs before
// validation and dispatch.
func (p *EmailPayload) Normalize() {
	trim := func(l AddressList) {
		for i := range l {
			l[i].Email = strings.TrimSpace(l[i].Email)
			l[i].Name = strings.TrimSpace(l[i].Name)
		}
	}
	trim(p.To)
	trim(p.From)
}

package session

import (
	"encoding/json"
	"fmt"
	"maps"
)

// Identity is the user record the backend returns next to a token.
// Fields other than username and is_admin are kept verbatim in Extra so
// that a stored identity encodes back to what the backend sent.
type Identity struct {
	Username string
	IsAdmin  bool
	Extra    map[string]json.RawMessage
}

// ParseIdentity decodes a backend user object. Anything that is not a JSON
// object is rejected with ErrMalformedIdentity.
func ParseIdentity(raw []byte) (*Identity, error) {
	if len(raw) == 0 {
		return nil, ErrMalformedIdentity
	}
	var id Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

// Clone returns a deep copy; nil stays nil.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(i.Extra))
		for k, v := range i.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return &c
}

func (i Identity) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(i.Extra)+2)
	for k, v := range i.Extra {
		m[k] = v
	}
	m["username"] = i.Username
	m["is_admin"] = i.IsAdmin
	return json.Marshal(m)
}

func (i *Identity) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIdentity, err)
	}
	if raw == nil {
		return ErrMalformedIdentity
	}

	var out Identity
	if v, ok := raw["username"]; ok {
		if err := json.Unmarshal(v, &out.Username); err != nil {
			return fmt.Errorf("%w: username: %v", ErrMalformedIdentity, err)
		}
		delete(raw, "username")
	}
	if v, ok := raw["is_admin"]; ok {
		if err := json.Unmarshal(v, &out.IsAdmin); err != nil {
			return fmt.Errorf("%w: is_admin: %v", ErrMalformedIdentity, err)
		}
		delete(raw, "is_admin")
	}
	if len(raw) > 0 {
		out.Extra = maps.Clone(raw)
	}

	*i = out
	return nil
}

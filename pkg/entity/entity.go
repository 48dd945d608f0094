package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an opaque, server-assigned identifier. The API may encode it as a JSON number
// or string; both decode to the same textual form.
type ID string

func (id ID) String() string { return string(id) }
func (id ID) IsZero() bool   { return id == "" }

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("entity id: expected string or number, got %s", data)
	}
	*id = ID(n.String())
	return nil
}

// Entity is a reference-data record addressable by its ID.
type Entity interface {
	EntityID() ID
}

package domain

import (
	"bytes"
	"encoding/json"
)

// OptionalFloat is a patch value that tells an absent field apart from an
// explicit JSON null. Set with a nil Value clears the field.
type OptionalFloat struct {
	Set   bool
	Value *float64
}

// SetFloat returns a patch value that stores v
func SetFloat(v float64) OptionalFloat {
	return OptionalFloat{Set: true, Value: &v}
}

// ClearFloat returns a patch value that clears the field
func ClearFloat() OptionalFloat {
	return OptionalFloat{Set: true}
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

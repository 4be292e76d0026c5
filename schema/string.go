package schema

// String is a plain-text schema.
type String string

// NewString returns s as a String schema.
func NewString(s string) String {
	return String(s)
}

func (s String) String() string {
	return string(s)
}

func (s *String) Unmarshal(bs []byte) error {
	*s = String(bs)
	return nil
}

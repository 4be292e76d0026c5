package schema

// Base is an embeddable no-op schema. Concrete input/output types embed Base
// and override String when they want a custom textual form.
type Base struct{}

// String implements Schema interface
func (r Base) String() string {
	return ""
}

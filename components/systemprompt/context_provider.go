package systemprompt

// ContextProvider contributes a titled block of extra information to a
// generated system prompt.
type ContextProvider interface {
	Title() string
	Info() string
}

package cli

const (
	FlagHome      = "home"
	FlagFormat    = "format"
	FlagForgiving = "forgiving"
	FlagEncoding  = "encoding"
	FlagReplace   = "replace"
)

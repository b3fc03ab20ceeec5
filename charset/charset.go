package charset

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"shelf/marc8"
)

const (
	MARC8 = "MARC-8"
	UTF8  = "UTF-8"

	DefaultReplacement = "�"
)

type InvalidPolicy int

const (
	Raise InvalidPolicy = iota
	Replace
)

func ParseInvalidPolicy(s string) (InvalidPolicy, error) {
	switch strings.ToLower(s) {
	case "", "raise", "strict":
		return Raise, nil
	case "replace":
		return Replace, nil
	default:
		return Raise, errors.Errorf("unknown invalid byte policy %q", s)
	}
}

func (p InvalidPolicy) String() string {
	if p == Replace {
		return "replace"
	}
	return "raise"
}

type Options struct {
	// External names the encoding of the raw bytes. Empty means the bytes
	// are passed through untouched.
	External string
	// Internal is the target encoding. Only UTF-8 is supported.
	Internal    string
	Validate    bool
	Invalid     InvalidPolicy
	Replacement string

	// MARC8 configures the transcoder used when External is MARC-8. Its
	// Replace and Replacement fields are overridden by Invalid and
	// Replacement.
	MARC8 marc8.Options
}

type ValidationError struct {
	Encoding string
	// Offset of the first invalid byte, or -1 when the decoder cannot
	// attribute the failure to a byte.
	Offset int
}

func (e *ValidationError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("charset: invalid %s data", e.Encoding)
	}
	return fmt.Sprintf("charset: invalid %s data at byte offset %d", e.Encoding, e.Offset)
}

// Normalizer turns raw field bytes into strings according to Options. It is
// immutable and safe for concurrent use.
type Normalizer struct {
	opts     Options
	external string
	marc8    *marc8.Decoder
	enc      encoding.Encoding
	isUTF8   bool
	leaderA  *Normalizer
}

func New(opts Options) (*Normalizer, error) {
	if opts.Replacement == "" {
		opts.Replacement = DefaultReplacement
	}
	if !isUTF8Name(opts.Internal) && opts.Internal != "" {
		return nil, errors.Errorf("unsupported internal encoding %q", opts.Internal)
	}

	n, err := newNormalizer(opts, opts.External)
	if err != nil {
		return nil, err
	}
	if opts.External == "" {
		n.leaderA, err = newNormalizer(opts, UTF8)
		if err != nil {
			return nil, err
		}
	}
	return n, nil
}

func newNormalizer(opts Options, external string) (*Normalizer, error) {
	n := &Normalizer{
		opts:     opts,
		external: external,
	}
	switch {
	case external == "":
	case isMARC8Name(external):
		m := opts.MARC8
		m.Replace = opts.Invalid == Replace
		m.Replacement = opts.Replacement
		n.external = MARC8
		n.marc8 = marc8.NewDecoder(m)
	case isUTF8Name(external):
		n.external = UTF8
		n.isUTF8 = true
	default:
		enc, err := lookup(external)
		if err != nil {
			return nil, err
		}
		if enc == unicode.UTF8 {
			n.external = UTF8
			n.isUTF8 = true
		} else {
			n.enc = enc
		}
	}
	return n, nil
}

func lookup(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err == nil && enc != nil {
		return enc, nil
	}
	enc, err = htmlindex.Get(name)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown external encoding %q", name)
	}
	return enc, nil
}

func isMARC8Name(name string) bool {
	return strings.EqualFold(name, "MARC-8") || strings.EqualFold(name, "MARC8")
}

func isUTF8Name(name string) bool {
	return strings.EqualFold(name, "UTF-8") || strings.EqualFold(name, "UTF8")
}

// External returns the canonical external encoding name, or "" for pass
// through.
func (n *Normalizer) External() string {
	return n.external
}

// ForCharacterCoding returns the normalizer to use for a record whose leader
// position 9 holds c. A record flagged 'a' is UTF-8 when no external
// encoding was configured.
func (n *Normalizer) ForCharacterCoding(c byte) *Normalizer {
	if c == 'a' && n.leaderA != nil {
		return n.leaderA
	}
	return n
}

func (n *Normalizer) Normalize(b []byte) (string, error) {
	switch {
	case n.marc8 != nil:
		return n.marc8.Decode(b)
	case n.isUTF8:
		return n.normalizeUTF8(b)
	case n.enc != nil:
		return n.normalizeExternal(b)
	default:
		return string(b), nil
	}
}

func (n *Normalizer) transcoding() bool {
	return n.opts.Internal != ""
}

func (n *Normalizer) normalizeUTF8(b []byte) (string, error) {
	if !n.transcoding() && !n.opts.Validate {
		return string(b), nil
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	if n.transcoding() && n.opts.Invalid == Replace {
		return strings.ToValidUTF8(string(b), n.opts.Replacement), nil
	}
	return "", &ValidationError{
		Encoding: UTF8,
		Offset:   firstInvalidUTF8(b),
	}
}

func (n *Normalizer) normalizeExternal(b []byte) (string, error) {
	if !n.transcoding() && !n.opts.Validate {
		return string(b), nil
	}
	decoded, err := n.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", &ValidationError{
			Encoding: n.external,
			Offset:   -1,
		}
	}
	s := string(decoded)
	if !strings.ContainsRune(s, utf8.RuneError) {
		if n.transcoding() {
			return s, nil
		}
		return string(b), nil
	}
	if n.transcoding() && n.opts.Invalid == Replace {
		return coalesceReplacement(s, n.opts.Replacement), nil
	}
	return "", &ValidationError{
		Encoding: n.external,
		Offset:   -1,
	}
}

func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// coalesceReplacement collapses each run of U+FFFD into one replacement.
func coalesceReplacement(s, replacement string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prev := false
	for _, r := range s {
		if r == utf8.RuneError {
			if !prev {
				sb.WriteString(replacement)
			}
			prev = true
			continue
		}
		prev = false
		sb.WriteRune(r)
	}
	return sb.String()
}

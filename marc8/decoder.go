package marc8

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

const (
	esc          byte = 0x1B
	contextRunes      = 32

	DefaultReplacement = "�"
)

// Form selects the Unicode normalization applied to decoded text. The zero
// value is NFC.
type Form int

const (
	NFC Form = iota
	NFD
	NFKC
	NFKD
	NoNormalization
)

func ParseForm(s string) (Form, error) {
	switch strings.ToUpper(s) {
	case "NFC", "":
		return NFC, nil
	case "NFD":
		return NFD, nil
	case "NFKC":
		return NFKC, nil
	case "NFKD":
		return NFKD, nil
	case "NONE", "FALSE", "OFF":
		return NoNormalization, nil
	default:
		return NFC, errors.Errorf("unknown normalization form %q", s)
	}
}

func (f Form) String() string {
	switch f {
	case NFC:
		return "NFC"
	case NFD:
		return "NFD"
	case NFKC:
		return "NFKC"
	case NFKD:
		return "NFKD"
	case NoNormalization:
		return "none"
	default:
		return "Form(" + strconv.Itoa(int(f)) + ")"
	}
}

func (f Form) apply(s string) string {
	switch f {
	case NFC:
		return norm.NFC.String(s)
	case NFD:
		return norm.NFD.String(s)
	case NFKC:
		return norm.NFKC.String(s)
	case NFKD:
		return norm.NFKD.String(s)
	default:
		return s
	}
}

// Options configures a Decoder. The zero value raises on unmapped code
// points, expands numeric character references and normalizes to NFC.
type Options struct {
	// Replace substitutes Replacement for unmapped code points instead of
	// returning a *TranscodeError.
	Replace     bool
	Replacement string

	// KeepNCR leaves &#xHHHH; references untouched.
	KeepNCR bool

	Form Form

	// Table overrides the bundled code tables.
	Table *Table
}

// Decoder converts MARC-8 bytes to UTF-8. It holds configuration only; the
// G0/G1 registers live in each Decode call, so a single Decoder may be used
// from several goroutines.
type Decoder struct {
	opts  Options
	table *Table
}

func NewDecoder(opts Options) *Decoder {
	if opts.Replacement == "" {
		opts.Replacement = DefaultReplacement
	}
	table := opts.Table
	if table == nil {
		table = DefaultTable()
	}
	return &Decoder{
		opts:  opts,
		table: table,
	}
}

func Decode(b []byte, opts Options) (string, error) {
	return NewDecoder(opts).Decode(b)
}

type registers struct {
	g0 byte
	g1 byte
}

func initialRegisters() registers {
	return registers{
		g0: BasicLatin,
		g1: ExtendedLatin,
	}
}

type output struct {
	sb          strings.Builder
	combining   []rune
	replacement string
	replaced    bool
}

func (o *output) base(r rune) {
	o.sb.WriteRune(r)
	o.replaced = false
	if len(o.combining) > 0 {
		for _, c := range o.combining {
			o.sb.WriteRune(c)
		}
		o.combining = o.combining[:0]
	}
}

func (o *output) literal(r rune) {
	o.sb.WriteRune(r)
	o.replaced = false
}

func (o *output) replace() {
	if o.replaced {
		return
	}
	o.sb.WriteString(o.replacement)
	o.replaced = true
}

func (o *output) finish() string {
	for _, c := range o.combining {
		o.sb.WriteRune(c)
	}
	o.combining = nil
	return o.sb.String()
}

func (o *output) tail() string {
	s := o.sb.String()
	if utf8.RuneCountInString(s) <= contextRunes {
		return s
	}
	runes := []rune(s)
	return string(runes[len(runes)-contextRunes:])
}

// Decode transcodes one independent MARC-8 string. Registers start from
// Basic Latin in G0 and Extended Latin in G1 on every call.
func (d *Decoder) Decode(in []byte) (string, error) {
	if len(in) == 0 {
		return "", nil
	}

	regs := initialRegisters()
	out := &output{
		replacement: d.opts.Replacement,
	}

	pos := 0
	for pos < len(in) {
		b := in[pos]

		if b == esc {
			next, ok := designate(in, pos, &regs)
			if ok {
				pos = next
				continue
			}
			// Truncated or unknown escape: keep the byte so the problem
			// stays visible in the output.
			out.literal(rune(esc))
			pos++
			continue
		}

		if b < 0x20 || (b >= 0x80 && b <= 0x9F) {
			out.literal(rune(b))
			pos++
			continue
		}

		start := pos
		multibyte := IsMultibyte(regs.g0) && b != 0x20
		var code uint32
		var set byte
		switch {
		case b == 0x20:
			out.base(' ')
			pos++
			continue
		case multibyte:
			set = regs.g0
			if pos+3 > len(in) {
				code = uint32(b)
				if err := d.unmapped(out, start, set, code, true); err != nil {
					return "", err
				}
				pos = start + 1
				continue
			}
			code = uint32(in[pos])<<16 | uint32(in[pos+1])<<8 | uint32(in[pos+2])
			pos += 3
		case b >= 0x80:
			set = regs.g1
			code = uint32(b)
			pos++
		default:
			set = regs.g0
			code = uint32(b)
			pos++
		}

		m, ok := d.table.Lookup(set, code)
		if !ok {
			if err := d.unmapped(out, start, set, code, false); err != nil {
				return "", err
			}
			pos = start + 1
			continue
		}
		if m.Combining {
			out.combining = append(out.combining, m.Rune)
			continue
		}
		out.base(m.Rune)
	}

	s := out.finish()
	if !d.opts.KeepNCR {
		s = ExpandNCR(s)
	}
	return d.opts.Form.apply(s), nil
}

func (d *Decoder) unmapped(out *output, offset int, set byte, code uint32, truncated bool) error {
	if d.opts.Replace {
		out.replace()
		return nil
	}
	return &TranscodeError{
		Offset:    offset,
		CodeSet:   set,
		CodePoint: code,
		Context:   out.tail(),
		Truncated: truncated,
		NoTable:   d.table.Len(set) == 0,
	}
}

// designate applies the escape sequence starting at in[pos] to regs and
// returns the position after it. ok is false when the sequence is truncated
// or not a designation.
func designate(in []byte, pos int, regs *registers) (int, bool) {
	rest := in[pos+1:]
	if len(rest) == 0 {
		return pos, false
	}

	switch rest[0] {
	case '(', ',':
		if len(rest) < 2 {
			return pos, false
		}
		regs.g0 = rest[1]
		return pos + 3, true
	case ')', '-':
		if len(rest) < 2 {
			return pos, false
		}
		regs.g1 = rest[1]
		return pos + 3, true
	case '$':
		if len(rest) < 2 {
			return pos, false
		}
		switch rest[1] {
		case ',':
			if len(rest) < 3 {
				return pos, false
			}
			regs.g0 = rest[2]
			return pos + 4, true
		case ')', '-':
			if len(rest) < 3 {
				return pos, false
			}
			regs.g1 = rest[2]
			return pos + 4, true
		default:
			regs.g0 = rest[1]
			return pos + 3, true
		}
	case GreekSymbols, Subscripts, Superscripts:
		regs.g0 = rest[0]
		return pos + 2, true
	case asciiDefault:
		regs.g0 = BasicLatin
		return pos + 2, true
	default:
		return pos, false
	}
}

var ncrPattern = regexp.MustCompile(`&#x([0-9A-Fa-f]{4,6});`)

// ExpandNCR replaces hexadecimal numeric character references with the
// characters they name. References to invalid scalar values are left as is.
func ExpandNCR(s string) string {
	if !strings.Contains(s, "&#x") {
		return s
	}
	return ncrPattern.ReplaceAllStringFunc(s, func(ref string) string {
		n, err := strconv.ParseUint(ref[3:len(ref)-1], 16, 32)
		if err != nil || !utf8.ValidRune(rune(n)) {
			return ref
		}
		return string(rune(n))
	})
}

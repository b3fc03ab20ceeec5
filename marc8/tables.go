package marc8

// Code sets are named by their ISO 2022 final byte.
const (
	BasicLatin       byte = 0x42
	ExtendedLatin    byte = 0x45
	BasicHebrew      byte = 0x32
	BasicArabic      byte = 0x33
	ExtendedArabic   byte = 0x34
	BasicCyrillic    byte = 0x4E
	ExtendedCyrillic byte = 0x51
	BasicGreek       byte = 0x53
	GreekSymbols     byte = 0x67
	Subscripts       byte = 0x62
	Superscripts     byte = 0x70
	EACC             byte = 0x31

	// asciiDefault is the technique 2 escape final byte that returns G0 to
	// Basic Latin.
	asciiDefault byte = 0x73
)

// Mapping is the Unicode value of a MARC-8 code point.
type Mapping struct {
	Rune      rune
	Combining bool
}

// Table maps (code set, code point) pairs to Unicode. Single byte sets are
// keyed by the 7 bit code point so a set resolves identically whether it is
// designated to G0 or G1.
type Table struct {
	sets map[byte]map[uint32]Mapping
}

func NewTable() *Table {
	return &Table{
		sets: make(map[byte]map[uint32]Mapping),
	}
}

func (t *Table) Lookup(set byte, code uint32) (Mapping, bool) {
	codes := t.sets[set]
	if codes == nil {
		return Mapping{}, false
	}
	m, ok := codes[tableKey(set, code)]
	return m, ok
}

func (t *Table) Set(set byte, code uint32, m Mapping) {
	codes := t.sets[set]
	if codes == nil {
		codes = make(map[uint32]Mapping)
		t.sets[set] = codes
	}
	codes[tableKey(set, code)] = m
}

func (t *Table) Len(set byte) int {
	return len(t.sets[set])
}

// Clone returns a deep copy, e.g. to extend the default table without
// touching the shared instance.
func (t *Table) Clone() *Table {
	out := NewTable()
	for set, codes := range t.sets {
		cp := make(map[uint32]Mapping, len(codes))
		for k, v := range codes {
			cp[k] = v
		}
		out.sets[set] = cp
	}
	return out
}

// Merge copies every mapping of other into t, overwriting duplicates.
func (t *Table) Merge(other *Table) {
	for set, codes := range other.sets {
		for code, m := range codes {
			t.Set(set, code, m)
		}
	}
}

func IsMultibyte(set byte) bool {
	return set == EACC
}

func tableKey(set byte, code uint32) uint32 {
	if IsMultibyte(set) {
		return code
	}
	return code & 0x7F
}

type entry struct {
	code      byte
	r         rune
	combining bool
}

var defaultTable = buildDefaultTable()

// DefaultTable returns the bundled table. It is shared and must not be
// modified; Clone it first.
func DefaultTable() *Table {
	return defaultTable
}

func buildDefaultTable() *Table {
	t := NewTable()
	for c := byte(0x21); c <= 0x7E; c++ {
		t.Set(BasicLatin, uint32(c), Mapping{Rune: rune(c)})
	}

	load := func(set byte, entries []entry) {
		for _, e := range entries {
			t.Set(set, uint32(e.code), Mapping{Rune: e.r, Combining: e.combining})
		}
	}
	load(ExtendedLatin, extendedLatin)
	load(GreekSymbols, greekSymbols)
	load(Subscripts, subscripts)
	load(Superscripts, superscripts)
	load(BasicCyrillic, asciiPunctuation)
	load(BasicCyrillic, basicCyrillic)
	load(ExtendedCyrillic, extendedCyrillic)
	load(BasicGreek, basicGreek)
	load(BasicHebrew, asciiPunctuation)
	load(BasicHebrew, basicHebrew)
	load(BasicArabic, asciiPunctuation)
	load(BasicArabic, basicArabic)

	// EACC ideographs are not bundled; install them with LoadCodeTables.
	t.sets[EACC] = make(map[uint32]Mapping)
	return t
}

// asciiPunctuation covers 0x21-0x3F, shared by the non-Latin G0 sets.
var asciiPunctuation = func() []entry {
	var out []entry
	for c := byte(0x21); c <= 0x3F; c++ {
		out = append(out, entry{c, rune(c), false})
	}
	return out
}()

var extendedLatin = []entry{
	{0xA1, 0x0141, false}, // Ł
	{0xA2, 0x00D8, false}, // Ø
	{0xA3, 0x0110, false}, // Đ
	{0xA4, 0x00DE, false}, // Þ
	{0xA5, 0x00C6, false}, // Æ
	{0xA6, 0x0152, false}, // Œ
	{0xA7, 0x02B9, false}, // soft sign
	{0xA8, 0x00B7, false}, // middle dot
	{0xA9, 0x266D, false}, // flat
	{0xAA, 0x00AE, false}, // ®
	{0xAB, 0x00B1, false}, // ±
	{0xAC, 0x01A0, false}, // Ơ
	{0xAD, 0x01AF, false}, // Ư
	{0xAE, 0x02BC, false}, // alif
	{0xB0, 0x02BB, false}, // ayn
	{0xB1, 0x0142, false}, // ł
	{0xB2, 0x00F8, false}, // ø
	{0xB3, 0x0111, false}, // đ
	{0xB4, 0x00FE, false}, // þ
	{0xB5, 0x00E6, false}, // æ
	{0xB6, 0x0153, false}, // œ
	{0xB7, 0x02BA, false}, // hard sign
	{0xB8, 0x0131, false}, // dotless i
	{0xB9, 0x00A3, false}, // £
	{0xBA, 0x00F0, false}, // ð
	{0xBC, 0x01A1, false}, // ơ
	{0xBD, 0x01B0, false}, // ư
	{0xC0, 0x00B0, false}, // degree
	{0xC1, 0x2113, false}, // script l
	{0xC2, 0x2117, false}, // sound recording copyright
	{0xC3, 0x00A9, false}, // ©
	{0xC4, 0x266F, false}, // sharp
	{0xC5, 0x00BF, false}, // ¿
	{0xC6, 0x00A1, false}, // ¡
	{0xC7, 0x00DF, false}, // ß
	{0xC8, 0x20AC, false}, // €
	{0xE0, 0x0309, true},  // hook above
	{0xE1, 0x0300, true},  // grave
	{0xE2, 0x0301, true},  // acute
	{0xE3, 0x0302, true},  // circumflex
	{0xE4, 0x0303, true},  // tilde
	{0xE5, 0x0304, true},  // macron
	{0xE6, 0x0306, true},  // breve
	{0xE7, 0x0307, true},  // dot above
	{0xE8, 0x0308, true},  // diaeresis
	{0xE9, 0x030C, true},  // caron
	{0xEA, 0x030A, true},  // ring above
	{0xEB, 0xFE20, true},  // ligature, left half
	{0xEC, 0xFE21, true},  // ligature, right half
	{0xED, 0x0315, true},  // comma above right
	{0xEE, 0x030B, true},  // double acute
	{0xEF, 0x0310, true},  // candrabindu
	{0xF0, 0x0327, true},  // cedilla
	{0xF1, 0x0328, true},  // ogonek
	{0xF2, 0x0323, true},  // dot below
	{0xF3, 0x0324, true},  // double dot below
	{0xF4, 0x0325, true},  // ring below
	{0xF5, 0x0333, true},  // double underscore
	{0xF6, 0x0332, true},  // underscore
	{0xF7, 0x0326, true},  // comma below
	{0xF8, 0x031C, true},  // right cedilla
	{0xF9, 0x032E, true},  // breve below
	{0xFA, 0xFE22, true},  // double tilde, left half
	{0xFB, 0xFE23, true},  // double tilde, right half
	{0xFE, 0x0313, true},  // comma above
}

var greekSymbols = []entry{
	{0x61, 0x03B1, false},
	{0x62, 0x03B2, false},
	{0x63, 0x03B3, false},
}

var subscripts = []entry{
	{0x28, 0x208D, false},
	{0x29, 0x208E, false},
	{0x2B, 0x208A, false},
	{0x2D, 0x208B, false},
	{0x30, 0x2080, false},
	{0x31, 0x2081, false},
	{0x32, 0x2082, false},
	{0x33, 0x2083, false},
	{0x34, 0x2084, false},
	{0x35, 0x2085, false},
	{0x36, 0x2086, false},
	{0x37, 0x2087, false},
	{0x38, 0x2088, false},
	{0x39, 0x2089, false},
}

var superscripts = []entry{
	{0x28, 0x207D, false},
	{0x29, 0x207E, false},
	{0x2B, 0x207A, false},
	{0x2D, 0x207B, false},
	{0x30, 0x2070, false},
	{0x31, 0x00B9, false},
	{0x32, 0x00B2, false},
	{0x33, 0x00B3, false},
	{0x34, 0x2074, false},
	{0x35, 0x2075, false},
	{0x36, 0x2076, false},
	{0x37, 0x2077, false},
	{0x38, 0x2078, false},
	{0x39, 0x2079, false},
}

// Lower case at 0x40-0x5F, upper case at 0x60-0x7E, KOI-7 ordering.
var basicCyrillic = func() []entry {
	order := []rune("юабцдефгхийклмнопярстужвьызшэщчъ")
	upper := []rune("ЮАБЦДЕФГХИЙКЛМНОПЯРСТУЖВЬЫЗШЭЩЧ")
	var out []entry
	for i, r := range order {
		out = append(out, entry{byte(0x40 + i), r, false})
	}
	for i, r := range upper {
		if 0x60+i > 0x7E {
			break
		}
		out = append(out, entry{byte(0x60 + i), r, false})
	}
	return out
}()

var extendedCyrillic = []entry{
	{0xC0, 0x0491, false}, // ґ
	{0xC1, 0x0452, false}, // ђ
	{0xC2, 0x0453, false}, // ѓ
	{0xC3, 0x0454, false}, // є
	{0xC4, 0x0451, false}, // ё
	{0xC5, 0x0455, false}, // ѕ
	{0xC6, 0x0456, false}, // і
	{0xC7, 0x0457, false}, // ї
	{0xC8, 0x0458, false}, // ј
	{0xC9, 0x0459, false}, // љ
	{0xCA, 0x045A, false}, // њ
	{0xCB, 0x045B, false}, // ћ
	{0xCC, 0x045C, false}, // ќ
	{0xCD, 0x045E, false}, // ў
	{0xCE, 0x045F, false}, // џ
	{0xD0, 0x0463, false}, // ѣ
	{0xD1, 0x0473, false}, // ѳ
	{0xD2, 0x0475, false}, // ѵ
	{0xD3, 0x046B, false}, // ѫ
	{0xDB, 0x005B, false},
	{0xDD, 0x005D, false},
	{0xDF, 0x005F, false},
	{0xE0, 0x0490, false}, // Ґ
	{0xE1, 0x0402, false}, // Ђ
	{0xE2, 0x0403, false}, // Ѓ
	{0xE3, 0x0404, false}, // Є
	{0xE4, 0x0401, false}, // Ё
	{0xE5, 0x0405, false}, // Ѕ
	{0xE6, 0x0406, false}, // І
	{0xE7, 0x0407, false}, // Ї
	{0xE8, 0x0408, false}, // Ј
	{0xE9, 0x0409, false}, // Љ
	{0xEA, 0x040A, false}, // Њ
	{0xEB, 0x040B, false}, // Ћ
	{0xEC, 0x040C, false}, // Ќ
	{0xED, 0x040E, false}, // Ў
	{0xEE, 0x040F, false}, // Џ
	{0xEF, 0x042A, false}, // Ъ
	{0xF0, 0x0462, false}, // Ѣ
	{0xF1, 0x0472, false}, // Ѳ
	{0xF2, 0x0474, false}, // Ѵ
	{0xF3, 0x046A, false}, // Ѫ
}

var basicGreek = []entry{
	{0x21, 0x0300, true},
	{0x22, 0x0301, true},
	{0x23, 0x0308, true},
	{0x24, 0x0342, true},
	{0x25, 0x0313, true},
	{0x26, 0x0314, true},
	{0x27, 0x0345, true},
	{0x30, 0x00AB, false},
	{0x31, 0x00BB, false},
	{0x32, 0x201C, false},
	{0x33, 0x201D, false},
	{0x34, 0x0374, false},
	{0x35, 0x0375, false},
	{0x3B, 0x0387, false},
	{0x3F, 0x037E, false},
	{0x41, 0x0391, false}, // Α
	{0x42, 0x0392, false}, // Β
	{0x44, 0x0393, false}, // Γ
	{0x45, 0x0394, false}, // Δ
	{0x46, 0x0395, false}, // Ε
	{0x47, 0x03DA, false}, // Ϛ
	{0x48, 0x03DC, false}, // Ϝ
	{0x49, 0x0396, false}, // Ζ
	{0x4A, 0x0397, false}, // Η
	{0x4B, 0x0398, false}, // Θ
	{0x4C, 0x0399, false}, // Ι
	{0x4D, 0x039A, false}, // Κ
	{0x4E, 0x039B, false}, // Λ
	{0x4F, 0x039C, false}, // Μ
	{0x50, 0x039D, false}, // Ν
	{0x51, 0x039E, false}, // Ξ
	{0x52, 0x039F, false}, // Ο
	{0x53, 0x03A0, false}, // Π
	{0x54, 0x03DE, false}, // Ϟ
	{0x55, 0x03A1, false}, // Ρ
	{0x56, 0x03A3, false}, // Σ
	{0x58, 0x03A4, false}, // Τ
	{0x59, 0x03A5, false}, // Υ
	{0x5A, 0x03A6, false}, // Φ
	{0x5B, 0x03A7, false}, // Χ
	{0x5C, 0x03A8, false}, // Ψ
	{0x5D, 0x03A9, false}, // Ω
	{0x5E, 0x03E0, false}, // Ϡ
	{0x61, 0x03B1, false}, // α
	{0x62, 0x03B2, false}, // β
	{0x63, 0x03D0, false}, // ϐ
	{0x64, 0x03B3, false}, // γ
	{0x65, 0x03B4, false}, // δ
	{0x66, 0x03B5, false}, // ε
	{0x67, 0x03DB, false}, // ϛ
	{0x68, 0x03DD, false}, // ϝ
	{0x69, 0x03B6, false}, // ζ
	{0x6A, 0x03B7, false}, // η
	{0x6B, 0x03B8, false}, // θ
	{0x6C, 0x03B9, false}, // ι
	{0x6D, 0x03BA, false}, // κ
	{0x6E, 0x03BB, false}, // λ
	{0x6F, 0x03BC, false}, // μ
	{0x70, 0x03BD, false}, // ν
	{0x71, 0x03BE, false}, // ξ
	{0x72, 0x03BF, false}, // ο
	{0x73, 0x03C0, false}, // π
	{0x74, 0x03DF, false}, // ϟ
	{0x75, 0x03C1, false}, // ρ
	{0x76, 0x03C3, false}, // σ
	{0x77, 0x03C2, false}, // ς
	{0x78, 0x03C4, false}, // τ
	{0x79, 0x03C5, false}, // υ
	{0x7A, 0x03C6, false}, // φ
	{0x7B, 0x03C7, false}, // χ
	{0x7C, 0x03C8, false}, // ψ
	{0x7D, 0x03C9, false}, // ω
	{0x7E, 0x03E1, false}, // ϡ
}

// Letters follow ISO 8859-8 ordering, alef at 0x60 through tav at 0x7A.
var basicHebrew = func() []entry {
	out := []entry{
		{0x5B, '[', false},
		{0x5D, ']', false},
	}
	for i := 0; i <= 0x7A-0x60; i++ {
		out = append(out, entry{byte(0x60 + i), rune(0x05D0 + i), false})
	}
	return out
}()

// Basic Arabic follows ASMO 449; entries here override asciiPunctuation.
var basicArabic = func() []entry {
	out := []entry{
		{0x2C, 0x060C, false}, // comma
		{0x3B, 0x061B, false}, // semicolon
		{0x3F, 0x061F, false}, // question mark
		{0x5B, '[', false},
		{0x5D, ']', false},
		{0x60, 0x0640, false}, // tatweel
	}
	for i := 0; i <= 9; i++ {
		out = append(out, entry{byte(0x30 + i), rune(0x0660 + i), false})
	}
	for i := 0; i <= 0x5A-0x41; i++ {
		out = append(out, entry{byte(0x41 + i), rune(0x0621 + i), false})
	}
	for i := 0; i <= 0x6A-0x61; i++ {
		out = append(out, entry{byte(0x61 + i), rune(0x0641 + i), false})
	}
	for i := 0; i <= 0x72-0x6B; i++ {
		out = append(out, entry{byte(0x6B + i), rune(0x064B + i), true})
	}
	return out
}()

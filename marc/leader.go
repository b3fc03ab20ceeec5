package marc

import (
	"strconv"

	"github.com/pkg/errors"
)

const (
	LeaderLen = 24

	recordLengthStart = 0
	recordLengthEnd   = 5
	baseAddressStart  = 12
	baseAddressEnd    = 17
	characterCoding   = 9
)

// Leader is the fixed 24 byte record header. Positions 0-4 hold the total
// record length and 12-16 the base address of the field data; every other
// position is opaque to this package.
type Leader [LeaderLen]byte

var defaultLeader = Leader{
	' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ',
	'2', '2',
	' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ',
	'4', '5', '0', '0',
}

// DefaultLeader returns the leader given to newly built records.
func DefaultLeader() Leader {
	return defaultLeader
}

func ParseLeader(s string) (Leader, error) {
	var l Leader
	if len(s) != LeaderLen {
		return l, errors.Errorf("leader must be exactly %d bytes, got %d", LeaderLen, len(s))
	}
	copy(l[:], s)
	return l, nil
}

func (l Leader) String() string {
	return string(l[:])
}

// RecordLength parses the record length slot. Zero-filled or non-numeric
// slots report 0 and false.
func (l Leader) RecordLength() (int, bool) {
	return parseSlot(l[recordLengthStart:recordLengthEnd])
}

func (l Leader) BaseAddress() (int, bool) {
	return parseSlot(l[baseAddressStart:baseAddressEnd])
}

// CharacterCoding returns leader position 9; 'a' marks UCS/Unicode records.
func (l Leader) CharacterCoding() byte {
	return l[characterCoding]
}

func (l Leader) WithCharacterCoding(c byte) Leader {
	l[characterCoding] = c
	return l
}

// WithLengths returns a copy of the leader with the record length and base
// address slots overwritten. Both slot values must already be formatted to
// five bytes.
func (l Leader) WithLengths(recordLength, baseAddress []byte) Leader {
	copy(l[recordLengthStart:recordLengthEnd], recordLength)
	copy(l[baseAddressStart:baseAddressEnd], baseAddress)
	return l
}

func parseSlot(b []byte) (int, bool) {
	n, err := strconv.Atoi(string(b))
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

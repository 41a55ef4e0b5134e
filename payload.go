package sgpwm

import (
	"fmt"
	"hash/crc32"
	"math/big"

	"github.com/sgpwm/sgpwm/internal/bio"
)

// RecordSize is the fixed length, in bytes, of a serialized payload record.
const RecordSize = 32

// magic is the constant protocol tag "SGP\x01".
const magic uint32 = 0x53475001

const (
	originalUIDOffset = 8
	originalUIDSize   = 12 // 96-bit owner identity
	currentUIDOffset  = 20
	currentUIDSize    = 10 // 80-bit holder identity
	flagsOffset       = 30
	reservedOffset    = 31
)

// originalUIDBits and currentUIDBits bound the UID ranges serialize accepts.
var (
	originalUIDBits = new(big.Int).Lsh(big.NewInt(1), originalUIDSize*8)
	currentUIDBits  = new(big.Int).Lsh(big.NewInt(1), currentUIDSize*8)
)

// Flags carries the two permission bits a payload record stores in its
// single flags byte. Bits beyond AllowDerivative/AllowReprint are
// reserved and must be zero on write.
type Flags struct {
	AllowDerivative bool
	AllowReprint    bool
}

func (f Flags) byte() byte {
	var b byte
	if f.AllowDerivative {
		b |= 1 << 0
	}
	if f.AllowReprint {
		b |= 1 << 1
	}
	return b
}

func flagsFromByte(b byte) Flags {
	return Flags{
		AllowDerivative: b&(1<<0) != 0,
		AllowReprint:    b&(1<<1) != 0,
	}
}

// Record is a decoded 32-byte payload: owner identity, holder identity,
// and the two permission bits. A zero CurrentUID denotes a master.
type Record struct {
	OriginalUID *big.Int
	CurrentUID  *big.Int
	Flags       Flags
}

// IsMaster reports whether the record's CurrentUID is zero.
func (r Record) IsMaster() bool {
	return r.CurrentUID == nil || r.CurrentUID.Sign() == 0
}

// InvalidReason enumerates why Deserialize rejected a byte sequence.
type InvalidReason int

const (
	// ReasonNone is the zero value; never returned alongside an error.
	ReasonNone InvalidReason = iota
	BadLength
	BadMagic
	BadCrc
	ReservedBitsSet
)

func (r InvalidReason) String() string {
	switch r {
	case BadLength:
		return "BadLength"
	case BadMagic:
		return "BadMagic"
	case BadCrc:
		return "BadCrc"
	case ReservedBitsSet:
		return "ReservedBitsSet"
	default:
		return "None"
	}
}

// InvalidPayloadError reports why a candidate 32-byte buffer does not hold
// a valid payload record. It is never raised for structurally malformed
// input that merely fails a magic/CRC check — that is represented by
// returning it, not panicking or wrapping an opaque error.
type InvalidPayloadError struct {
	Reason InvalidReason
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid payload: %s", e.Reason)
}

// Serialize writes a Record into its 32-byte wire form: magic, a
// placeholder CRC, both UIDs, flags, and a zero reserved byte, then
// backfills the CRC-32/IEEE of bytes [8,32).
//
// Serialize fails if either UID does not fit in its allotted width:
// OriginalUID must satisfy 0 <= x < 2^96, CurrentUID must satisfy
// 0 <= x < 2^80 (see DESIGN.md for why CurrentUID gets 80 bits rather
// than 96 — the record's own byte arithmetic only works out to 32 bytes
// total with an 80-bit CurrentUID).
func Serialize(rec Record) ([]byte, error) {
	if rec.OriginalUID == nil || rec.OriginalUID.Sign() < 0 || rec.OriginalUID.Cmp(originalUIDBits) >= 0 {
		return nil, fmt.Errorf("sgpwm: original_uid overflows 96 bits")
	}
	cur := rec.CurrentUID
	if cur == nil {
		cur = new(big.Int)
	}
	if cur.Sign() < 0 || cur.Cmp(currentUIDBits) >= 0 {
		return nil, fmt.Errorf("sgpwm: current_uid overflows 80 bits")
	}

	buf := make([]byte, RecordSize)
	buf[0], buf[1], buf[2], buf[3] = byte(magic>>24), byte(magic>>16), byte(magic>>8), byte(magic)
	putBigEndian(buf[originalUIDOffset:originalUIDOffset+originalUIDSize], rec.OriginalUID)
	putBigEndian(buf[currentUIDOffset:currentUIDOffset+currentUIDSize], cur)
	buf[flagsOffset] = rec.Flags.byte()
	buf[reservedOffset] = 0

	sum := crc32.ChecksumIEEE(buf[originalUIDOffset:RecordSize])
	buf[4], buf[5], buf[6], buf[7] = byte(sum>>24), byte(sum>>16), byte(sum>>8), byte(sum)
	return buf, nil
}

// Deserialize validates and decodes a 32-byte buffer. Strict mode also
// rejects a nonzero reserved byte or nonzero reserved flag bits; lenient
// mode (the default, Strict == false) ignores them.
func Deserialize(buf []byte, strict bool) (Record, *InvalidPayloadError) {
	if len(buf) != RecordSize {
		return Record{}, &InvalidPayloadError{Reason: BadLength}
	}
	gotMagic := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	if gotMagic != magic {
		return Record{}, &InvalidPayloadError{Reason: BadMagic}
	}
	wantCrc := uint32(buf[4])<<24 | uint32(buf[5])<<16 | uint32(buf[6])<<8 | uint32(buf[7])
	gotCrc := crc32.ChecksumIEEE(buf[originalUIDOffset:RecordSize])
	if wantCrc != gotCrc {
		return Record{}, &InvalidPayloadError{Reason: BadCrc}
	}
	if strict {
		if buf[reservedOffset] != 0 || buf[flagsOffset]&^0x3 != 0 {
			return Record{}, &InvalidPayloadError{Reason: ReservedBitsSet}
		}
	}

	return Record{
		OriginalUID: getBigEndian(buf[originalUIDOffset : originalUIDOffset+originalUIDSize]),
		CurrentUID:  getBigEndian(buf[currentUIDOffset : currentUIDOffset+currentUIDSize]),
		Flags:       flagsFromByte(buf[flagsOffset]),
	}, nil
}

func putBigEndian(dst []byte, v *big.Int) {
	b := v.Bytes()
	if len(b) > len(dst) {
		b = b[len(b)-len(dst):]
	}
	copy(dst[len(dst)-len(b):], b)
}

func getBigEndian(src []byte) *big.Int {
	return new(big.Int).SetBytes(src)
}

// Bits unpacks a 32-byte record into 256 bits, most-significant-bit first,
// for the redundancy encoder (component E).
func Bits(buf []byte) []int {
	r := bio.NewReader(buf)
	bits := make([]int, r.Len())
	for i := range bits {
		bits[i] = r.ReadBit()
	}
	return bits
}

// PackBits packs 256 bits, most-significant-bit first, back into a
// 32-byte buffer, for the redundancy voter (component E).
func PackBits(bits []int) []byte {
	w := bio.NewWriter(len(bits))
	for _, b := range bits {
		w.WriteBit(b)
	}
	return w.Bytes()
}

package scope

import (
	"encoding/binary"
	"iter"
	"math"
	"strings"
)

// SampleParser decodes one fixed-width encoded sample.
// Parse must be given exactly Width() bytes.
type SampleParser interface {
	Width() int
	Parse(raw []byte) float64
}

// Signed16PCM is signed 16-bit little-endian PCM.
type Signed16PCM struct{}

func (Signed16PCM) Width() int { return 2 }
func (Signed16PCM) Parse(raw []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(raw))) / 32768.0
}

// RawSigned16PCM is signed 16-bit little-endian PCM left as integer values.
// Pair it with a StreamToMatrix divisor of 32768.
type RawSigned16PCM struct{}

func (RawSigned16PCM) Width() int { return 2 }
func (RawSigned16PCM) Parse(raw []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(raw)))
}

// Unsigned8PCM is unsigned 8-bit PCM centred on 128.
type Unsigned8PCM struct{}

func (Unsigned8PCM) Width() int { return 1 }
func (Unsigned8PCM) Parse(raw []byte) float64 {
	return (float64(raw[0]) - 128) / 128.0
}

// Signed24PCM is packed signed 24-bit little-endian PCM.
type Signed24PCM struct{}

func (Signed24PCM) Width() int { return 3 }
func (Signed24PCM) Parse(raw []byte) float64 {
	s := int32(raw[0]) | int32(raw[1])<<8 | int32(raw[2])<<16
	if s&0x800000 != 0 {
		s |= ^0xFFFFFF // sign extend
	}
	return float64(s) / 8388608.0
}

// Signed32PCM is signed 32-bit little-endian PCM.
type Signed32PCM struct{}

func (Signed32PCM) Width() int { return 4 }
func (Signed32PCM) Parse(raw []byte) float64 {
	return float64(int32(binary.LittleEndian.Uint32(raw))) / 2147483648.0
}

// Float32PCM is IEEE-754 little-endian float samples, already normalized.
type Float32PCM struct{}

func (Float32PCM) Width() int { return 4 }
func (Float32PCM) Parse(raw []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
}

var parsers = map[string]SampleParser{
	"s16le": Signed16PCM{},
	"u8":    Unsigned8PCM{},
	"s24le": Signed24PCM{},
	"s32le": Signed32PCM{},
	"f32le": Float32PCM{},
}

// ParserFor returns the parser registered under a format name such as "s16le".
func ParserFor(name string) (SampleParser, bool) {
	p, ok := parsers[strings.ToLower(name)]
	return p, ok
}

// FormatNames lists the accepted format names.
func FormatNames() string {
	return "s16le, u8, s24le, s32le, f32le"
}

// Samples decodes raw lazily in Width()-sized chunks. A trailing partial
// chunk is dropped.
func Samples(raw []byte, p SampleParser) iter.Seq[float64] {
	return func(yield func(float64) bool) {
		w := p.Width()
		for off := 0; off+w <= len(raw); off += w {
			if !yield(p.Parse(raw[off : off+w])) {
				return
			}
		}
	}
}

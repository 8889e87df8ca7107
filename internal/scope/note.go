package scope

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidNote is returned by ParseNote for names it cannot read.
var ErrInvalidNote = errors.New("invalid note")

// Octaves outside [MinOctave, MaxOctave] are rejected by ParseNote.
const (
	MinOctave = -1
	MaxOctave = 9
)

// Tone is a pitch class, C = 0 through B = 11.
type Tone int

const (
	C Tone = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var toneNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (t Tone) String() string {
	if t < C || t > B {
		return "?"
	}
	return toneNames[t]
}

// Note is a pitch in scientific notation, A4 = 440 Hz.
type Note struct {
	Tone   Tone
	Octave int
}

func (n Note) String() string {
	return n.Tone.String() + strconv.Itoa(n.Octave)
}

// ParseNote reads names such as "A4", "c#3", "Bb2" or "E-1".
func ParseNote(s string) (Note, error) {
	txt := strings.TrimSpace(s)
	if txt == "" {
		return Note{}, fmt.Errorf("%w: empty", ErrInvalidNote)
	}

	var tone Tone
	switch txt[0] {
	case 'C', 'c':
		tone = C
	case 'D', 'd':
		tone = D
	case 'E', 'e':
		tone = E
	case 'F', 'f':
		tone = F
	case 'G', 'g':
		tone = G
	case 'A', 'a':
		tone = A
	case 'B', 'b':
		tone = B
	default:
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}
	rest := txt[1:]

	switch {
	case strings.HasPrefix(rest, "#"):
		tone++
		rest = rest[1:]
	case strings.HasPrefix(rest, "♯"):
		tone++
		rest = rest[len("♯"):]
	case strings.HasPrefix(rest, "b"):
		tone--
		rest = rest[1:]
	case strings.HasPrefix(rest, "♭"):
		tone--
		rest = rest[len("♭"):]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidNote, s)
	}

	// B# and Cb cross into the neighbouring octave.
	switch {
	case tone > B:
		tone = C
		octave++
	case tone < C:
		tone = B
		octave--
	}
	if octave < MinOctave || octave > MaxOctave {
		return Note{}, fmt.Errorf("%w: %q octave outside [%d, %d]", ErrInvalidNote, s, MinOctave, MaxOctave)
	}
	return Note{Tone: tone, Octave: octave}, nil
}

// Frequency returns the equal-tempered fundamental in Hz.
func (n Note) Frequency() float64 {
	midi := (n.Octave+1)*12 + int(n.Tone)
	return 440.0 * math.Pow(2, float64(midi-69)/12.0)
}

// Period returns the fundamental period in samples.
func (n Note) Period(sampleRate uint32) float64 {
	return float64(sampleRate) / n.Frequency()
}

// TuneBufferSize returns the smallest multiple of the rounded period that is
// not evenly divisible by channels*2. Multiples of a period that already
// divides by channels*2 never clear that guard, so in that case the size is
// bumped one sample at a time instead.
func (n Note) TuneBufferSize(sampleRate uint32, channels int) uint32 {
	period := uint32(math.Round(n.Period(sampleRate)))
	if period < 1 {
		period = 1
	}
	if channels < 1 {
		channels = 1
	}
	guard := uint32(channels * 2)

	// k*p is divisible by guard for every k only when p is; otherwise
	// k = 1 is already the smallest multiple.
	if period%guard != 0 {
		return period
	}

	buf := period
	for buf%guard == 0 {
		buf++
	}
	return buf
}

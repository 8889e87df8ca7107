package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"

	"github.com/olivier-w/scope/internal/media"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// audioDecoder yields signed 16-bit little-endian interleaved PCM.
// Length and Seek offsets are in output bytes.
type audioDecoder interface {
	io.ReadSeeker
	Length() int64
	SampleRate() int
	ChannelCount() int
}

// newDecoder picks a decoder from the file extension.
func newDecoder(f *os.File) (audioDecoder, error) {
	ext := strings.ToLower(filepath.Ext(f.Name()))
	switch ext {
	case ".mp3":
		return newMP3Decoder(f)
	case ".wav":
		return newWAVDecoder(f)
	case ".flac":
		return newFLACDecoder(f)
	case ".ogg":
		return newOGGDecoder(f)
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat, ext, media.SupportedExtsList())
	}
}

// pcmBuffer is the bookkeeping shared by decoders that convert whole
// source blocks into PCM and hand it out piecemeal.
type pcmBuffer struct {
	buf        []byte
	pos        int64
	total      int64
	sampleRate int
	channels   int
}

func (b *pcmBuffer) Length() int64     { return b.total }
func (b *pcmBuffer) SampleRate() int   { return b.sampleRate }
func (b *pcmBuffer) ChannelCount() int { return b.channels }

// drain copies pending bytes into p.
func (b *pcmBuffer) drain(p []byte) int {
	n := copy(p, b.buf)
	b.buf = b.buf[n:]
	b.pos += int64(n)
	return n
}

// emit hands out a freshly converted block, keeping what does not fit.
func (b *pcmBuffer) emit(p, raw []byte) int {
	b.buf = raw
	return b.drain(p)
}

// target resolves a Seek request to a frame-aligned output offset and the
// matching frame index.
func (b *pcmBuffer) target(offset int64, whence int) (int64, int64) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.pos + offset
	case io.SeekEnd:
		pos = b.total + offset
	}
	pos = max(0, min(pos, b.total))
	frame := int64(max(b.channels, 1) * BytesPerSample)
	return pos - pos%frame, pos / frame
}

func (b *pcmBuffer) moved(pos int64) {
	b.buf = nil
	b.pos = pos
}

func putSample(raw []byte, i, sample int) {
	sample = max(-32768, min(sample, 32767))
	binary.LittleEndian.PutUint16(raw[i*BytesPerSample:], uint16(int16(sample)))
}

// to16 rescales a sample of the given bit depth to 16 bits. 8-bit WAV is
// unsigned.
func to16(v, bitDepth int, unsigned8 bool) int {
	switch {
	case bitDepth == 8 && unsigned8:
		return (v - 128) << 8
	case bitDepth > 16:
		return v >> (bitDepth - 16)
	case bitDepth < 16:
		return v << (16 - bitDepth)
	default:
		return v
	}
}

// --- MP3 ---

// go-mp3 already produces 16-bit stereo.
type mp3Decoder struct {
	*mp3.Decoder
}

func newMP3Decoder(f *os.File) (*mp3Decoder, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, fmt.Errorf("decoding MP3: %w", err)
	}
	return &mp3Decoder{Decoder: dec}, nil
}

func (d *mp3Decoder) ChannelCount() int { return 2 }

// --- WAV ---

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

type wavDecoder struct {
	pcmBuffer
	file         *os.File
	dec          *wav.Decoder
	samples      *audio.IntBuffer
	pcmStart     int64
	pcmLen       int64
	bitDepth     int
	srcFrameSize int64
}

func newWAVDecoder(f *os.File) (*wavDecoder, error) {
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}
	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("%w: WAV encoding %d", ErrUnsupportedFormat, dec.WavAudioFormat)
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("reading WAV PCM data: %w", err)
	}

	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("getting PCM start position: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	srcFrameSize := int64(channels * bitDepth / 8)
	frames := dec.PCMLen() / srcFrameSize

	return &wavDecoder{
		pcmBuffer: pcmBuffer{
			total:      frames * int64(channels*BytesPerSample),
			sampleRate: int(dec.SampleRate),
			channels:   channels,
		},
		file:         f,
		dec:          dec,
		samples:      &audio.IntBuffer{},
		pcmStart:     pcmStart,
		pcmLen:       dec.PCMLen(),
		bitDepth:     bitDepth,
		srcFrameSize: srcFrameSize,
	}, nil
}

func (d *wavDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		return d.drain(p), nil
	}

	want := max(len(p)/BytesPerSample, d.channels)
	if cap(d.samples.Data) < want {
		d.samples.Data = make([]int, want)
	}
	d.samples.Data = d.samples.Data[:want]

	n, err := d.dec.PCMBuffer(d.samples)
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	raw := make([]byte, n*BytesPerSample)
	for i, v := range d.samples.Data[:n] {
		putSample(raw, i, to16(v, d.bitDepth, true))
	}
	return d.emit(p, raw), err
}

func (d *wavDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	src := min(frame*d.srcFrameSize, d.pcmLen)
	if _, err := d.dec.Seek(d.pcmStart+src, io.SeekStart); err != nil {
		return d.pos, err
	}
	// PCMBuffer reads through the chunk's limited reader, so it has to be
	// rebuilt around the new file offset.
	d.dec.PCMChunk.R = io.LimitReader(d.file, d.pcmLen-src)
	d.moved(pos)
	return pos, nil
}

// --- FLAC ---

type flacDecoder struct {
	pcmBuffer
	stream *flac.Stream
	bps    int
}

func newFLACDecoder(f *os.File) (*flacDecoder, error) {
	stream, err := flac.NewSeek(f)
	if err != nil {
		return nil, fmt.Errorf("decoding FLAC: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	return &flacDecoder{
		pcmBuffer: pcmBuffer{
			total:      int64(info.NSamples) * int64(channels*BytesPerSample),
			sampleRate: int(info.SampleRate),
			channels:   channels,
		},
		stream: stream,
		bps:    int(info.BitsPerSample),
	}, nil
}

func (d *flacDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		return d.drain(p), nil
	}

	frame, err := d.stream.ParseNext()
	if err != nil {
		return 0, err
	}

	nSamples := int(frame.Subframes[0].NSamples)
	raw := make([]byte, nSamples*d.channels*BytesPerSample)
	for i := range nSamples {
		for ch := range d.channels {
			putSample(raw, i*d.channels+ch, to16(int(frame.Subframes[ch].Samples[i]), d.bps, false))
		}
	}
	return d.emit(p, raw), nil
}

func (d *flacDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if _, err := d.stream.Seek(uint64(frame)); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

// --- OGG Vorbis ---

type oggDecoder struct {
	pcmBuffer
	reader  *oggvorbis.Reader
	samples []float32
}

func newOGGDecoder(f *os.File) (*oggDecoder, error) {
	reader, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decoding OGG: %w", err)
	}

	channels := reader.Channels()
	return &oggDecoder{
		pcmBuffer: pcmBuffer{
			total:      reader.Length() * int64(channels*BytesPerSample),
			sampleRate: reader.SampleRate(),
			channels:   channels,
		},
		reader: reader,
	}, nil
}

func (d *oggDecoder) Read(p []byte) (int, error) {
	if len(d.buf) > 0 {
		return d.drain(p), nil
	}

	want := max(len(p)/BytesPerSample, d.channels)
	if cap(d.samples) < want {
		d.samples = make([]float32, want)
	}
	n, err := d.reader.Read(d.samples[:want])
	if n == 0 {
		if err != nil {
			return 0, err
		}
		return 0, io.EOF
	}

	raw := make([]byte, n*BytesPerSample)
	for i, s := range d.samples[:n] {
		putSample(raw, i, int(max(-1, min(s, 1))*32767))
	}
	return d.emit(p, raw), err
}

func (d *oggDecoder) Seek(offset int64, whence int) (int64, error) {
	pos, frame := d.target(offset, whence)
	if err := d.reader.SetPosition(frame); err != nil {
		return d.pos, err
	}
	d.moved(pos)
	return pos, nil
}

// Package player plays decoded audio files through oto and copies every PCM
// byte handed to the sound card into a tap, which the scope reads from.
package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/olivier-w/scope/internal/log"
)

// BytesPerSample is the width of the signed 16-bit little-endian PCM every
// decoder produces.
const BytesPerSample = 2

var ErrContextMismatch = errors.New("audio output already opened with a different format")

// tapReader wraps the decoder, tracks bytes read and copies them to the tap.
type tapReader struct {
	reader io.Reader
	tap    io.Writer
	pos    int64
	mu     sync.Mutex
}

func (tr *tapReader) Read(p []byte) (int, error) {
	n, err := tr.reader.Read(p)
	if n > 0 && tr.tap != nil {
		tr.tap.Write(p[:n])
	}
	tr.mu.Lock()
	tr.pos += int64(n)
	tr.mu.Unlock()
	return n, err
}

func (tr *tapReader) Pos() int64 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.pos
}

func (tr *tapReader) SetPos(pos int64) {
	tr.mu.Lock()
	tr.pos = pos
	tr.mu.Unlock()
}

// Player manages playback of one file.
type Player struct {
	file      *os.File
	decoder   audioDecoder
	counter   *tapReader
	otoCtx    *oto.Context
	otoPlayer *oto.Player
	duration  time.Duration
	volume    float64
	paused    bool
	done      chan struct{}
	mu        sync.Mutex
	closed    bool
}

var (
	globalOtoCtx *oto.Context
	otoFormat    [2]int
	otoMu        sync.Mutex
)

// initOto opens the process-wide output context on first use. oto allows a
// single context, so later files must share its sample rate and channels.
func initOto(sampleRate, channels int) (*oto.Context, error) {
	otoMu.Lock()
	defer otoMu.Unlock()

	if globalOtoCtx != nil {
		if otoFormat != [2]int{sampleRate, channels} {
			return nil, fmt.Errorf("%w: %d Hz/%d ch, want %d Hz/%d ch",
				ErrContextMismatch, otoFormat[0], otoFormat[1], sampleRate, channels)
		}
		return globalOtoCtx, nil
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	globalOtoCtx = ctx
	otoFormat = [2]int{sampleRate, channels}
	return ctx, nil
}

// New starts playing path. Every decoded byte is also written to tap, which
// may be nil.
func New(path string, tap io.Writer) (*Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	dec, err := newDecoder(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	ctx, err := initOto(dec.SampleRate(), dec.ChannelCount())
	if err != nil {
		f.Close()
		return nil, err
	}

	p := &Player{
		file:     f,
		decoder:  dec,
		counter:  &tapReader{reader: dec, tap: tap},
		otoCtx:   ctx,
		duration: bytesToDuration(dec.Length(), dec.SampleRate(), dec.ChannelCount()),
		volume:   0.8,
		done:     make(chan struct{}),
	}
	log.Infof("playing %s: %d Hz, %d channel(s), %s", path, dec.SampleRate(), dec.ChannelCount(), p.duration.Round(time.Second))

	p.otoPlayer = ctx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	p.otoPlayer.Play()

	go p.monitor()

	return p, nil
}

func (p *Player) monitor() {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return
		}
		pos := p.counter.Pos()
		total := p.decoder.Length()
		paused := p.paused
		done := p.done
		p.mu.Unlock()

		if !paused && pos >= total {
			close(done)
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
}

// Done returns a channel that closes when playback finishes.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

func (p *Player) SampleRate() int { return p.decoder.SampleRate() }

func (p *Player) Channels() int { return p.decoder.ChannelCount() }

// TogglePause toggles between play and pause.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paused = !p.paused
	if p.otoPlayer == nil {
		return
	}
	if p.paused {
		p.otoPlayer.Pause()
	} else {
		p.otoPlayer.Play()
	}
}

func (p *Player) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	return bytesToDuration(p.counter.Pos(), p.decoder.SampleRate(), p.decoder.ChannelCount())
}

func (p *Player) Duration() time.Duration {
	return p.duration
}

// Seek moves playback by delta from the current position.
func (p *Player) Seek(delta time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	frame := int64(p.decoder.ChannelCount() * BytesPerSample)
	bytesPerSec := int64(p.decoder.SampleRate()) * frame
	target := clampSeekByteOffset(delta, p.counter.Pos(), p.decoder.Length(), bytesPerSec, frame)
	return p.seekTo(target)
}

// seekTo must be called with p.mu held.
func (p *Player) seekTo(pos int64) error {
	if _, err := p.decoder.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	p.counter.SetPos(pos)

	if p.otoPlayer == nil {
		return nil
	}
	// A fresh oto player drops whatever the old one had buffered.
	p.otoPlayer.Pause()
	p.otoPlayer = p.otoCtx.NewPlayer(p.counter)
	p.otoPlayer.SetVolume(p.volume)
	if !p.paused {
		p.otoPlayer.Play()
	}
	return nil
}

// clampSeekByteOffset returns pos moved by delta, clamped to [0, total] and
// aligned down to a whole frame.
func clampSeekByteOffset(delta time.Duration, pos, total, bytesPerSec, frame int64) int64 {
	target := pos + int64(delta.Seconds()*float64(bytesPerSec))
	target = max(0, min(target, total))
	if frame > 0 {
		target -= target % frame
	}
	return target
}

func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// SetVolume sets volume, clamped to [0, 1].
func (p *Player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volume = max(0, min(v, 1))
	if p.otoPlayer != nil {
		p.otoPlayer.SetVolume(p.volume)
	}
}

func (p *Player) AdjustVolume(delta float64) {
	p.mu.Lock()
	v := p.volume + delta
	p.mu.Unlock()
	p.SetVolume(v)
}

// Close releases all resources.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.otoPlayer != nil {
		p.otoPlayer.Pause()
	}
	if p.file == nil {
		return nil
	}
	return p.file.Close()
}

func bytesToDuration(n int64, sampleRate, channels int) time.Duration {
	bytesPerSec := int64(sampleRate * channels * BytesPerSample)
	if bytesPerSec <= 0 {
		return 0
	}
	return time.Duration(float64(n) / float64(bytesPerSec) * float64(time.Second))
}

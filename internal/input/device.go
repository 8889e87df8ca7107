package input

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/olivier-w/scope/internal/log"
	"github.com/olivier-w/scope/internal/scope"
)

// DefaultDevice selects the system default input device.
const DefaultDevice = -1

var ErrInvalidDevice = errors.New("invalid device")

// DeviceSource captures from a PortAudio input device into a ring buffer and
// taps it like any other ring.
type DeviceSource struct {
	*TapSource

	stream *portaudio.Stream
	ring   *RingBuffer
	raw    []byte
}

// OpenDevice initializes PortAudio and starts capturing float32 samples from
// device (DefaultDevice for the system default). opts.Parser is ignored.
func OpenDevice(device int, opts Options) (*DeviceSource, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	opts.Parser = nil
	opts = opts.withDefaults()

	info, err := inputDevice(device)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = uint32(info.DefaultSampleRate)
	}

	d := &DeviceSource{}
	capture := opts
	capture.Parser = scope.Float32PCM{}
	d.ring = NewRingBuffer(RingSize(capture))
	d.raw = make([]byte, opts.Buffer*opts.Channels*4)

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   info,
			Channels: opts.Channels,
			Latency:  info.DefaultLowInputLatency,
		},
		SampleRate:      float64(opts.SampleRate),
		FramesPerBuffer: opts.Buffer,
	}
	stream, err := portaudio.OpenStream(params, d.capture)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open %q: %w", info.Name, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("start %q: %w", info.Name, err)
	}
	log.Infof("capturing %d channel(s) at %d Hz from %q", opts.Channels, opts.SampleRate, info.Name)

	d.stream = stream
	d.TapSource = NewTapSource(d.ring, capture, nil, d.stop)
	return d, nil
}

// capture runs on the PortAudio thread.
func (d *DeviceSource) capture(in []float32) {
	raw := d.raw
	if need := len(in) * 4; need > len(raw) {
		raw = make([]byte, need)
	}
	for i, s := range in {
		binary.LittleEndian.PutUint32(raw[i*4:], math.Float32bits(s))
	}
	d.ring.Write(raw[:len(in)*4])
}

func (d *DeviceSource) stop() error {
	var errs []error
	if err := d.stream.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := d.stream.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := portaudio.Terminate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func inputDevice(id int) (*portaudio.DeviceInfo, error) {
	if id == DefaultDevice {
		return portaudio.DefaultInputDevice()
	}
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	if id < 0 || id >= len(devices) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDevice, id)
	}
	if devices[id].MaxInputChannels == 0 {
		return nil, fmt.Errorf("%w: %d has no inputs", ErrInvalidDevice, id)
	}
	return devices[id], nil
}

var listMu sync.Mutex

// ListDevices writes a table of the available devices to w.
func ListDevices(w io.Writer) error {
	listMu.Lock()
	defer listMu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	devices, err := portaudio.Devices()
	if err != nil {
		return err
	}
	for i, dev := range devices {
		fmt.Fprintf(w, "[%d] %s (%s)\n", i, dev.Name, deviceKind(dev.MaxInputChannels, dev.MaxOutputChannels))
		fmt.Fprintf(w, "    Input channels: %d, Output channels: %d\n", dev.MaxInputChannels, dev.MaxOutputChannels)
		fmt.Fprintf(w, "    Default sample rate: %.0f Hz\n", dev.DefaultSampleRate)
	}
	return nil
}

func deviceKind(in, out int) string {
	switch {
	case in > 0 && out > 0:
		return "Input/Output"
	case in > 0:
		return "Input"
	case out > 0:
		return "Output"
	default:
		return "none"
	}
}

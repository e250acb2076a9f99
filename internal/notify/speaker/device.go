package speaker

import (
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	bspeaker "github.com/gopxl/beep/v2/speaker"
)

// The speaker can be initialised once per process; later clips are
// resampled to the rate it was opened with.
var (
	initMu     sync.Mutex
	outputRate beep.SampleRate
)

func initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	initMu.Lock()
	defer initMu.Unlock()

	if outputRate != 0 {
		return outputRate, nil
	}
	if err := bspeaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return 0, err
	}
	outputRate = rate
	return rate, nil
}

// Device plays one mp3 clip on the default output, looped until stopped.
type Device struct {
	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	format   beep.Format
	output   beep.SampleRate
	ctrl     *effects.Volume
	volume   int
}

// Open decodes the clip at path, initialising the speaker at the clip's
// sample rate on first use.
func Open(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	streamer, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	output, err := initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	return &Device{streamer: streamer, format: format, output: output, volume: 100}, nil
}

func (d *Device) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	bspeaker.Clear()
	if err := d.streamer.Seek(0); err != nil {
		return err
	}

	var source beep.Streamer = beep.Loop(-1, d.streamer)
	if d.format.SampleRate != d.output {
		source = beep.Resample(4, d.format.SampleRate, d.output, source)
	}

	d.ctrl = &effects.Volume{
		Streamer: source,
		Base:     2,
		Volume:   Gain(d.volume),
		Silent:   d.volume <= 0,
	}
	bspeaker.Play(d.ctrl)
	return nil
}

func (d *Device) Stop() {
	bspeaker.Clear()
}

func (d *Device) SetVolume(percent int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.volume = percent
	if d.ctrl == nil {
		return
	}
	bspeaker.Lock()
	d.ctrl.Volume = Gain(percent)
	d.ctrl.Silent = percent <= 0
	bspeaker.Unlock()
}

func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	bspeaker.Clear()
	return d.streamer.Close()
}

// Gain maps a 0..100 volume to the base-2 exponent used by effects.Volume,
// so 100 is unity gain and 50 halves the amplitude.
func Gain(percent int) float64 {
	if percent <= 0 {
		return math.Inf(-1)
	}
	if percent >= 100 {
		return 0
	}
	return math.Log2(float64(percent) / 100)
}

package notify

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// Device is a single audio output holding one clip.
type Device interface {
	Play() error
	Stop()
	SetVolume(percent int)
	Close() error
}

// DeviceOpener opens the clip stored at path.
type DeviceOpener func(path string) (Device, error)

type clipStamp struct {
	modTime time.Time
	size    int64
}

func (c clipStamp) same(o clipStamp) bool {
	return c.size == o.size && c.modTime.Equal(o.modTime)
}

// AudioSink plays the clip for a bounded duration. Only one playback runs at
// a time; further notifications wait for the device.
//
// The clip is opened on demand and reopened whenever the file on disk
// changes, so a clip downloaded or replaced by sync is picked up without a
// restart. While no clip can be opened, events go to the log sink.
type AudioSink struct {
	path     string
	open     DeviceOpener
	fallback NotificationSink
	duration time.Duration
	logger   providers.Logger

	devMu  sync.Mutex
	device Device
	stamp  clipStamp
	volume int

	playMu sync.Mutex
	stop   chan struct{}
}

func NewAudioSink(path string, open DeviceOpener, duration time.Duration, logger providers.Logger) *AudioSink {
	a := &AudioSink{
		path:     path,
		open:     open,
		fallback: NewLogSink(logger),
		duration: duration,
		logger:   logger,
		volume:   models.DefaultVolume,
		stop:     make(chan struct{}, 1),
	}
	if _, err := a.current(); err != nil {
		a.logger.Warnf(providers.TypeAudio, "Audio output unavailable, notifications will be logged until the clip can be opened: %s", err)
	} else {
		a.logger.Infof(providers.TypeAudio, "Audio output ready: %s", path)
	}
	return a
}

// current returns the device for the clip now on disk, reopening it when
// the file was replaced. A failed reopen keeps the previous device.
func (a *AudioSink) current() (Device, error) {
	a.devMu.Lock()
	defer a.devMu.Unlock()

	info, err := os.Stat(a.path)
	if err != nil {
		if a.device != nil {
			return a.device, nil
		}
		return nil, err
	}

	stamp := clipStamp{modTime: info.ModTime(), size: info.Size()}
	if a.device != nil && stamp.same(a.stamp) {
		return a.device, nil
	}

	device, err := a.open(a.path)
	if err != nil {
		if a.device != nil {
			a.logger.Warnf(providers.TypeAudio, "Keeping previous clip, unable to open %s: %s", a.path, err)
			return a.device, nil
		}
		return nil, err
	}

	if a.device != nil {
		if cerr := a.device.Close(); cerr != nil {
			a.logger.Warnf(providers.TypeAudio, "Closing previous clip: %s", cerr)
		}
		a.logger.Infof(providers.TypeAudio, "Reloaded clip %s", a.path)
	}
	device.SetVolume(a.volume)
	a.device, a.stamp = device, stamp
	return device, nil
}

func (a *AudioSink) Notify(ctx context.Context, ev models.PrayerEvent) error {
	a.playMu.Lock()
	defer a.playMu.Unlock()

	// drop a stop request that arrived while idle
	select {
	case <-a.stop:
	default:
	}

	device, err := a.current()
	if err != nil {
		a.logger.Warnf(providers.TypeAudio, "Clip unavailable for %s: %s", ev.Prayer, err)
		return a.fallback.Notify(ctx, ev)
	}

	if err = device.Play(); err != nil {
		return fmt.Errorf("play adhan for %s: %w", ev.Prayer, err)
	}
	a.logger.Infof(providers.TypeAudio, "Playing adhan for %s for %s", ev.Prayer, a.duration)

	timer := time.NewTimer(a.duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-a.stop:
		a.logger.Infof(providers.TypeAudio, "Adhan stopped")
	case <-ctx.Done():
	}

	device.Stop()
	return nil
}

// Stop interrupts the current playback, if any.
func (a *AudioSink) Stop() {
	select {
	case a.stop <- struct{}{}:
	default:
	}
}

func (a *AudioSink) SetVolume(percent int) {
	a.devMu.Lock()
	defer a.devMu.Unlock()

	a.volume = models.ClampVolume(percent)
	if a.device != nil {
		a.device.SetVolume(a.volume)
	}
}

func (a *AudioSink) Close() error {
	a.Stop()
	a.playMu.Lock()
	defer a.playMu.Unlock()
	a.devMu.Lock()
	defer a.devMu.Unlock()

	if a.device == nil {
		return nil
	}
	err := a.device.Close()
	a.device = nil
	return err
}

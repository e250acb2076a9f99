package notify

import (
	"adhan/internal/models"
	"adhan/internal/testutil"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	mu      sync.Mutex
	events  []string
	volume  int
	playErr error
	closed  bool
}

func (d *fakeDevice) record(ev string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
}

func (d *fakeDevice) Play() error {
	if d.playErr != nil {
		return d.playErr
	}
	d.record("play")
	return nil
}

func (d *fakeDevice) Stop() { d.record("stop") }

func (d *fakeDevice) SetVolume(percent int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.volume = percent
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

func (d *fakeDevice) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.events...)
}

func writeClip(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestAudioSink(t *testing.T, device Device, duration time.Duration) *AudioSink {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adhan.mp3")
	writeClip(t, path, "clip")
	open := func(string) (Device, error) { return device, nil }
	return NewAudioSink(path, open, duration, &testutil.MockLogger{})
}

// countingOpener hands out a fresh fakeDevice per open.
type countingOpener struct {
	mu      sync.Mutex
	devices []*fakeDevice
	err     error
}

func (o *countingOpener) open(string) (Device, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	d := &fakeDevice{}
	o.devices = append(o.devices, d)
	return d, nil
}

func (o *countingOpener) opened() []*fakeDevice {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakeDevice(nil), o.devices...)
}

func TestAudioSink_PlaysForDurationThenStops(t *testing.T) {
	device := &fakeDevice{}
	sink := newTestAudioSink(t, device, 20*time.Millisecond)

	start := time.Now()
	err := sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Fajr})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, []string{"play", "stop"}, device.Events())
}

func TestAudioSink_StopCutsPlaybackShort(t *testing.T) {
	device := &fakeDevice{}
	sink := newTestAudioSink(t, device, time.Minute)

	done := make(chan error, 1)
	go func() {
		done <- sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Dhuhr})
	}()

	require.Eventually(t, func() bool { return len(device.Events()) == 1 }, time.Second, time.Millisecond)
	sink.Stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("playback was not interrupted")
	}
	assert.Equal(t, []string{"play", "stop"}, device.Events())
}

func TestAudioSink_IdleStopDoesNotCutNextPlayback(t *testing.T) {
	device := &fakeDevice{}
	sink := newTestAudioSink(t, device, 30*time.Millisecond)

	sink.Stop()
	start := time.Now()
	require.NoError(t, sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Asr}))

	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestAudioSink_SerialisesPlayback(t *testing.T) {
	device := &fakeDevice{}
	sink := newTestAudioSink(t, device, 10*time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Isha})
		}()
	}
	wg.Wait()

	assert.Equal(t, []string{"play", "stop", "play", "stop", "play", "stop"}, device.Events())
}

func TestAudioSink_ContextCancelStops(t *testing.T) {
	device := &fakeDevice{}
	sink := newTestAudioSink(t, device, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	require.NoError(t, sink.Notify(ctx, models.PrayerEvent{Prayer: models.Maghrib}))
	assert.Equal(t, []string{"play", "stop"}, device.Events())
}

func TestAudioSink_PlayError(t *testing.T) {
	device := &fakeDevice{playErr: errors.New("device busy")}
	sink := newTestAudioSink(t, device, time.Minute)

	err := sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Fajr})

	assert.Error(t, err)
	assert.Empty(t, device.Events())
}

func TestAudioSink_SetVolumeClamps(t *testing.T) {
	device := &fakeDevice{}
	sink := newTestAudioSink(t, device, time.Second)

	sink.SetVolume(150)
	assert.Equal(t, 100, device.volume)
	sink.SetVolume(-5)
	assert.Equal(t, 0, device.volume)
}

func TestAudioSink_Close(t *testing.T) {
	device := &fakeDevice{}
	sink := newTestAudioSink(t, device, time.Second)

	require.NoError(t, sink.Close())
	assert.True(t, device.closed)
}

func TestAudioSink_OpensClipDownloadedAfterStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adhan.mp3")
	opener := &countingOpener{}
	logger := &testutil.MockLogger{}
	sink := NewAudioSink(path, opener.open, 5*time.Millisecond, logger)
	assert.NotEmpty(t, logger.Entries("warn"))

	require.NoError(t, sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Fajr}))
	assert.Empty(t, opener.opened())

	writeClip(t, path, "downloaded clip")
	require.NoError(t, sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Dhuhr}))

	devices := opener.opened()
	require.Len(t, devices, 1)
	assert.Equal(t, []string{"play", "stop"}, devices[0].Events())
}

func TestAudioSink_ReopensReplacedClip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adhan.mp3")
	writeClip(t, path, "old")
	opener := &countingOpener{}
	sink := NewAudioSink(path, opener.open, 5*time.Millisecond, &testutil.MockLogger{})
	sink.SetVolume(30)

	require.NoError(t, sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Asr}))
	require.Len(t, opener.opened(), 1)

	writeClip(t, path, "replaced by sync")
	require.NoError(t, sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Maghrib}))

	devices := opener.opened()
	require.Len(t, devices, 2)
	assert.True(t, devices[0].closed)
	assert.Equal(t, 30, devices[1].volume)
	assert.Equal(t, []string{"play", "stop"}, devices[1].Events())
}

func TestAudioSink_KeepsDeviceWhenReopenFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adhan.mp3")
	writeClip(t, path, "good")
	opener := &countingOpener{}
	sink := NewAudioSink(path, opener.open, 5*time.Millisecond, &testutil.MockLogger{})

	opener.mu.Lock()
	opener.err = errors.New("decode failed")
	opener.mu.Unlock()
	writeClip(t, path, "truncated download")

	require.NoError(t, sink.Notify(context.Background(), models.PrayerEvent{Prayer: models.Isha}))
	devices := opener.opened()
	require.Len(t, devices, 1)
	assert.False(t, devices[0].closed)
	assert.Equal(t, []string{"play", "stop"}, devices[0].Events())
}

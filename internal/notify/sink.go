package notify

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"context"
	"errors"
)

// NotificationSink receives prayer events. Notify may block for the length
// of the notification; Stop cuts any notification in progress short and
// Close releases the sink for good.
type NotificationSink interface {
	Notify(ctx context.Context, ev models.PrayerEvent) error
	Stop()
	Close() error
}

// VolumeControl is implemented by sinks with an audible output.
type VolumeControl interface {
	SetVolume(percent int)
}

// LogSink only writes the event to the trigger log. It stands in for the
// audio sink when no output device can be opened.
type LogSink struct {
	logger providers.Logger
}

func NewLogSink(logger providers.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, ev models.PrayerEvent) error {
	s.logger.Infof(providers.TypeTrigger, "%s at %s (%s - %s)", ev.Prayer, ev.Time, ev.City, ev.Country)
	return nil
}

func (s *LogSink) Stop() {}

func (s *LogSink) Close() error { return nil }

// MultiSink fans an event out to every sink concurrently and waits for all
// of them.
type MultiSink struct {
	sinks []NotificationSink
}

func NewMultiSink(sinks ...NotificationSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Notify(ctx context.Context, ev models.PrayerEvent) error {
	errs := make(chan error, len(m.sinks))
	for _, sink := range m.sinks {
		go func(s NotificationSink) {
			errs <- s.Notify(ctx, ev)
		}(sink)
	}

	var all []error
	for range m.sinks {
		if err := <-errs; err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

func (m *MultiSink) Stop() {
	for _, sink := range m.sinks {
		sink.Stop()
	}
}

func (m *MultiSink) SetVolume(percent int) {
	for _, sink := range m.sinks {
		if vc, ok := sink.(VolumeControl); ok {
			vc.SetVolume(percent)
		}
	}
}

func (m *MultiSink) Close() error {
	var all []error
	for _, sink := range m.sinks {
		if err := sink.Close(); err != nil {
			all = append(all, err)
		}
	}
	return errors.Join(all...)
}

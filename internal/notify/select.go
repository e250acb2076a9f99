package notify

import (
	"adhan/internal/models"
	"adhan/internal/notify/speaker"
	"adhan/internal/providers"
	"adhan/internal/structures"
)

const statusHistory = 50

type Identity interface {
	DeviceID() string
}

var openDevice DeviceOpener = func(path string) (Device, error) {
	return speaker.Open(path)
}

// NewNotificationSink picks the notification sink once at startup: the
// audio sink when audio is enabled, the log sink otherwise, fanned out to
// MQTT when a broker is configured. The audio sink opens its clip on demand.
func NewNotificationSink(conf *structures.Config, audioPath string, identity Identity, logger providers.Logger) NotificationSink {
	var primary NotificationSink = NewLogSink(logger)
	if conf.Audio.Enabled {
		primary = NewAudioSink(audioPath, openDevice, conf.Scheduler.AdhanDuration, logger)
	}

	if !conf.Mqtt.Enabled {
		return primary
	}
	return NewMultiSink(primary, NewMQTTSink(conf, identity.DeviceID(), logger))
}

// NewTimingsDisplay picks the display once at startup. The control API needs
// the in-memory board; headless runs only log.
func NewTimingsDisplay(conf *structures.Config, logger providers.Logger) TimingsDisplay {
	if conf.WebServer.Enabled {
		return NewStatusBoard(logger, statusHistory)
	}
	return NewLogDisplay(logger)
}

type emptyStatus struct{}

func (emptyStatus) Timings() *models.PrayerTimings { return nil }
func (emptyStatus) History() []StatusEntry         { return nil }

func NewStatusReader(display TimingsDisplay) StatusReader {
	if r, ok := display.(StatusReader); ok {
		return r
	}
	return emptyStatus{}
}

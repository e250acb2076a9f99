package di

import (
	"adhan/internal/notify"
	"adhan/internal/providers"
	"adhan/internal/scheduler"
	"adhan/internal/services"
	"adhan/internal/store"
	"adhan/internal/structures"
	"adhan/internal/updater"
)

func provideLogger(conf *structures.Config) (providers.Logger, func(), error) {
	logger, err := providers.NewLogProvider(conf)
	if err != nil {
		return nil, nil, err
	}
	return logger, logger.Close, nil
}

func provideFetcherIdentity(settings services.SettingsServiceInterface) updater.Identity {
	return settings
}

func provideOnlineChecker(online services.ConnectivityInterface) updater.OnlineChecker {
	return online
}

func provideTimingsSource(timings services.TimingsServiceInterface) scheduler.TimingsSource {
	return timings
}

func provideSettingsSource(settings services.SettingsServiceInterface) scheduler.SettingsSource {
	return settings
}

func provideNotificationSink(conf *structures.Config, st store.ResourceStoreInterface, settings services.SettingsServiceInterface, logger providers.Logger) notify.NotificationSink {
	return notify.NewNotificationSink(conf, st.Path(conf.Storage.AudioFile), settings, logger)
}

package configwatcher

import "github.com/bft-labs/linehost/pkg/linehost"

// WithConfigWatcher returns a linehost Option that enables settings file watching.
//
// Usage:
//
//	h, err := linehost.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.Config{
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithConfigWatcher(cfg Config) linehost.Option {
	return linehost.WithPlugin(New(cfg))
}

// WithDefaultConfigWatcher returns a linehost Option that enables settings
// watching with default settings.
func WithDefaultConfigWatcher() linehost.Option {
	return WithConfigWatcher(DefaultConfig())
}

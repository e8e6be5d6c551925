package config

import "time"

const (
	defaultAddr            = ":8080"
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second

	defaultVerifyInterval = time.Hour
	defaultNATSSubject    = "docregistry.links.broken"
	defaultKVBucket       = "docregistry-link-cache"

	defaultEventStorePath = "docregistry.db"
	defaultWatchDebounce  = 500 * time.Millisecond
	defaultContentDir     = "content"
)

// applyDefaults fills unset fields with operational defaults. It never
// overrides explicit values.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultShutdownTimeout
	}

	if c.LinkVerification != nil {
		if c.LinkVerification.Interval == 0 {
			c.LinkVerification.Interval = defaultVerifyInterval
		}
		if c.LinkVerification.Subject == "" {
			c.LinkVerification.Subject = defaultNATSSubject
		}
		if c.LinkVerification.KVBucket == "" {
			c.LinkVerification.KVBucket = defaultKVBucket
		}
	}

	if c.EventStore.Path == "" {
		c.EventStore.Path = defaultEventStorePath
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = defaultWatchDebounce
	}

	for i := range c.Repositories {
		if c.Repositories[i].ContentDir == "" {
			c.Repositories[i].ContentDir = defaultContentDir
		}
	}
}

package config

import (
	"os"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
)

const sampleConfig = `# Document registry configuration.

# Local markdown trees to load. base_path is prepended to derived page paths.
content:
  - path: ./content
    base_path: /v2.0

# Remote docs repositories (optional).
# repositories:
#   - name: platform-docs
#     url: https://git.example.com/platform/docs.git
#     branch: main
#     content_dir: content
#     base_path: /platform

# Fail the build on dangling menu parent references instead of demoting
# the orphaned entry to the root level.
strict: false

server:
  addr: ":8080"

link_verification:
  enabled: true
  interval: 1h
  # nats_url: nats://localhost:4222

event_store:
  path: docregistry.db

watch:
  enabled: true
  debounce: 500ms
`

// Init writes a commented starter configuration file. Existing files are
// preserved unless force is set.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return derrors.ConfigError("config file already exists").
				WithContext("path", path).
				Build()
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryConfig, "failed to write config file").
			WithContext("path", path).
			Build()
	}
	return nil
}

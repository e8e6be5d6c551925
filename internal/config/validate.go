package config

import (
	"strings"

	derrors "git.home.luguber.info/inful/docregistry/internal/foundation/errors"
)

// Validate checks configuration consistency after defaulting.
func (c *Config) Validate() error {
	if len(c.Content) == 0 && len(c.Repositories) == 0 {
		return derrors.ConfigError("no content sources configured").Build()
	}

	for i, root := range c.Content {
		if root.Path == "" {
			return derrors.ConfigError("content root has empty path").
				WithContext("index", i).
				Build()
		}
		if err := validateBasePath(root.BasePath); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(c.Repositories))
	for i, repo := range c.Repositories {
		if repo.URL == "" {
			return derrors.ConfigError("repository has empty url").
				WithContext("index", i).
				WithContext("name", repo.Name).
				Build()
		}
		if repo.Name != "" {
			if _, dup := seen[repo.Name]; dup {
				return derrors.ConfigError("duplicate repository name").
					WithContext("name", repo.Name).
					Build()
			}
			seen[repo.Name] = struct{}{}
		}
		if err := validateBasePath(repo.BasePath); err != nil {
			return err
		}
	}

	if c.LinkVerification != nil && c.LinkVerification.Enabled && c.LinkVerification.Interval < 0 {
		return derrors.ConfigError("link verification interval must not be negative").Build()
	}

	return nil
}

func validateBasePath(basePath string) error {
	if basePath == "" {
		return nil
	}
	if !strings.HasPrefix(basePath, "/") {
		return derrors.ConfigError("base_path must be rooted").
			WithContext("base_path", basePath).
			Build()
	}
	return nil
}

package config

import (
	"git.home.luguber.info/inful/markupdown/internal/foundation/errors"
	"git.home.luguber.info/inful/markupdown/internal/markdown"
	"git.home.luguber.info/inful/markupdown/internal/workspace"
)

// ValidateConfig checks a Config after defaults have been applied.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validatePatterns(); err != nil {
		return err
	}
	if err := cv.validateModes(); err != nil {
		return err
	}
	if err := cv.validateExtensions(); err != nil {
		return err
	}
	if err := cv.config.CloneRetry.Validate(); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid clone retry policy").Build()
	}
	return nil
}

func (cv *configurationValidator) validateExtensions() error {
	for _, name := range cv.config.Extensions {
		if !markdown.KnownExtension(name) {
			return errors.ConfigError("unknown markdown extension").
				WithContext("extension", name).
				Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	c := cv.config
	if c.SiteDir == "" {
		return errors.ConfigError("site directory must be set").Build()
	}
	if c.SiteDir == c.ContentDir {
		return errors.ConfigError("site directory must differ from content directory").
			WithContext("path", c.SiteDir).
			Build()
	}
	if c.SourceRepo == "" && c.SourceRef != "" {
		return errors.ConfigError("source ref requires a source repository").
			WithContext("ref", c.SourceRef).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validatePatterns() error {
	if _, err := workspace.NewMatcher(cv.config.Patterns...); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid source pattern").
			WithContext("patterns", cv.config.Patterns).
			Build()
	}
	return nil
}

func (cv *configurationValidator) validateModes() error {
	c := cv.config
	if err := indexModes.Validate(string(c.IndexMode)); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid index mode").
			WithContext("index_mode", c.IndexMode).
			Build()
	}
	if err := linkCheckModes.Validate(string(c.LinkCheck)); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid link check mode").
			WithContext("link_check", c.LinkCheck).
			Build()
	}
	return nil
}

// ConfigFileError wraps a failure to read a configuration file.
func ConfigFileError(path string, err error) error {
	return errors.WrapError(err, errors.CategoryConfig, "failed to load configuration file").
		WithContext("file", path).
		Build()
}

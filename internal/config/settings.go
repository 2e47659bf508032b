package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/nao1215/copychecker/internal/model"
)

// EnvPrefix is the prefix of the environment variables read by ApplyEnv.
const EnvPrefix = "COPYCHECKER"

// Settings are the global settings that the config file and the
// environment may set. Zero values mean "not set".
type Settings struct {
	Language          string        `yaml:"language,omitempty" envconfig:"LANGUAGE"`
	APIURL            string        `yaml:"apiUrl,omitempty" envconfig:"API_URL"`
	APIUsername       string        `yaml:"apiUsername,omitempty" envconfig:"API_USERNAME"`
	APIKey            string        `yaml:"apiKey,omitempty" envconfig:"API_KEY"`
	RequestsPerMinute *int          `yaml:"requestsPerMinute,omitempty" envconfig:"REQUESTS_PER_MINUTE"`
	Timeout           time.Duration `yaml:"timeout,omitempty" envconfig:"TIMEOUT"`
	CheckTimeout      time.Duration `yaml:"checkTimeout,omitempty" envconfig:"CHECK_TIMEOUT"`
	Concurrency       int           `yaml:"concurrency,omitempty" envconfig:"CONCURRENCY"`
	BatchSize         int           `yaml:"batchSize,omitempty" envconfig:"BATCH_SIZE"`
	MaxFrameDepth     *int          `yaml:"maxFrameDepth,omitempty" envconfig:"MAX_FRAME_DEPTH"`
	Proxy             string        `yaml:"proxy,omitempty" envconfig:"PROXY"`
	UserAgent         string        `yaml:"userAgent,omitempty" envconfig:"USER_AGENT"`
	MaxBodySize       int64         `yaml:"maxBodySize,omitempty" envconfig:"MAX_BODY_SIZE"`
	DBDir             string        `yaml:"dbDir,omitempty" envconfig:"DB_DIR"`
	Save              *bool         `yaml:"save,omitempty" envconfig:"SAVE"`
	Verbose           bool          `yaml:"verbose,omitempty" envconfig:"VERBOSE"`
}

// apply copies every set value of s into c.
func (c *Config) apply(s Settings) error {
	if s.Language != "" {
		lang, err := model.ParseLanguage(s.Language)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, s.Language)
		}
		c.Language = lang
	}
	if s.APIURL != "" {
		c.APIURL = s.APIURL
	}
	if s.APIUsername != "" {
		c.APIUsername = s.APIUsername
	}
	if s.APIKey != "" {
		c.APIKey = s.APIKey
	}
	if s.RequestsPerMinute != nil {
		c.RequestsPerMinute = *s.RequestsPerMinute
	}
	if s.Timeout != 0 {
		c.Timeout = s.Timeout
	}
	if s.CheckTimeout != 0 {
		c.CheckTimeout = s.CheckTimeout
	}
	if s.Concurrency != 0 {
		c.Concurrency = s.Concurrency
	}
	if s.BatchSize != 0 {
		c.BatchSize = s.BatchSize
	}
	if s.MaxFrameDepth != nil {
		c.MaxFrameDepth = *s.MaxFrameDepth
	}
	if s.Proxy != "" {
		c.ProxyAddress = s.Proxy
	}
	if s.UserAgent != "" {
		c.UserAgent = s.UserAgent
	}
	if s.MaxBodySize != 0 {
		c.MaxBodySize = s.MaxBodySize
	}
	if s.DBDir != "" {
		c.DBDir = s.DBDir
	}
	if s.Save != nil {
		c.SaveToDB = *s.Save
	}
	if s.Verbose {
		c.Verbose = true
	}
	return nil
}

// ApplyFile copies the global settings of f into c and keeps f for
// per-site lookups.
func (c *Config) ApplyFile(f *File) error {
	if f == nil {
		return nil
	}
	if err := c.apply(f.Settings); err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	c.SiteConfigs = f
	return nil
}

// ApplyEnv copies COPYCHECKER_* environment variables into c.
func (c *Config) ApplyEnv() error {
	var s Settings
	if err := envconfig.Process(EnvPrefix, &s); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	if err := c.apply(s); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	return nil
}

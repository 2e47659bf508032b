package config

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/nao1215/copychecker/internal/model"
)

// SiteConfig holds site-specific settings for one host.
type SiteConfig struct {
	// Cookie is an HTTP cookie sent when fetching pages of this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers sent with requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Language overrides the global language for this site ("UK" or "US").
	Language string `yaml:"language,omitempty"`
}

// File represents the structure of the .copychecker configuration file.
type File struct {
	// Settings are global settings. Unset values keep the defaults.
	Settings Settings `yaml:",inline"`

	// Sites maps host names to their site-specific configurations.
	// Keys are host names without scheme or port (e.g., "www.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a host.
// It merges the site-specific configuration with defaults. Host names are
// compared case-insensitively.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[host]
	if !ok {
		for name, sc := range cf.Sites {
			if strings.EqualFold(name, host) {
				siteConfig, ok = sc, true
				break
			}
		}
	}
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.Language != "" {
		result.Language = siteConfig.Language
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}

	return result
}

// siteFor returns the site configuration of u, or false when there is no
// config file or u has no host.
func (c *Config) siteFor(u *url.URL) (SiteConfig, bool) {
	if c.SiteConfigs == nil || u == nil || u.Hostname() == "" {
		return SiteConfig{}, false
	}
	return c.SiteConfigs.GetSiteConfig(u.Hostname()), true
}

// SiteHeaders returns the extra request headers for u: the configured
// headers plus the cookie, if any. It returns nil when nothing is
// configured and is meant to be passed to page.WithHeaders.
func (c *Config) SiteHeaders(u *url.URL) http.Header {
	site, ok := c.siteFor(u)
	if !ok || (len(site.Headers) == 0 && site.Cookie == "") {
		return nil
	}

	h := make(http.Header, len(site.Headers)+1)
	for k, v := range site.Headers {
		h.Set(k, v)
	}
	if site.Cookie != "" {
		h.Set("Cookie", site.Cookie)
	}
	return h
}

// LanguageFor returns the language to check target in: the site override
// if one is configured and valid, else the global language.
func (c *Config) LanguageFor(target string) model.Language {
	u, err := url.Parse(target)
	if err != nil {
		return c.Language
	}
	site, ok := c.siteFor(u)
	if !ok || site.Language == "" {
		return c.Language
	}
	lang, err := model.ParseLanguage(site.Language)
	if err != nil {
		return c.Language
	}
	return lang
}

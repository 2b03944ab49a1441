package config

// SiteConfig holds settings for one prediction endpoint.
type SiteConfig struct {
	// Cookie is an HTTP cookie sent with every submission.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers sent with every submission.
	Headers map[string]string `yaml:"headers,omitempty"`

	// LabelSelector overrides the selector group that finds the label
	// on a result page.
	LabelSelector string `yaml:"labelSelector,omitempty"`

	// ConfidenceSelector overrides the selector group that finds the
	// confidence on a result page.
	ConfidenceSelector string `yaml:"confidenceSelector,omitempty"`

	// Action overrides the form action for this endpoint.
	Action string `yaml:"action,omitempty"`
}

// File represents the structure of the .phishscan configuration file.
type File struct {
	// Endpoint is the default prediction endpoint. The --endpoint flag
	// takes precedence.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Locale is the default timestamp locale.
	Locale string `yaml:"locale,omitempty"`

	// TimeZone is the default time zone for timestamps.
	TimeZone string `yaml:"timeZone,omitempty"`

	// Proxy is the default SOCKS5 proxy address.
	Proxy string `yaml:"proxy,omitempty"`

	// Sites maps endpoint hosts ("host:port") to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains settings applied to every endpoint unless
	// overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for an endpoint host, merged
// with the defaults.
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
		return result
	}
	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}
	if siteConfig.LabelSelector != "" {
		result.LabelSelector = siteConfig.LabelSelector
	}
	if siteConfig.ConfidenceSelector != "" {
		result.ConfidenceSelector = siteConfig.ConfidenceSelector
	}
	if siteConfig.Action != "" {
		result.Action = siteConfig.Action
	}
	return result
}

package providers

import (
	"adhan/internal/structures"
	"fmt"
	"net/url"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}

	for _, raw := range []string{c.conf.Sync.BaseURL, c.conf.TimeService.URL, c.conf.Connectivity.ProbeURL} {
		if err := checkAbsoluteURL(raw); err != nil {
			return err
		}
	}

	seen := make(map[string]struct{}, len(c.conf.Sync.Resources))
	for _, r := range c.conf.Sync.Resources {
		if r.Name == "" || r.Path == "" {
			return fmt.Errorf("sync resource requires name and path: %+v", r)
		}
		if _, ok := seen[r.Name]; ok {
			return fmt.Errorf("duplicate sync resource %q", r.Name)
		}
		seen[r.Name] = struct{}{}
	}

	if c.conf.Mqtt.Enabled && c.conf.Mqtt.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is enabled")
	}
	return nil
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url %q must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	return nil
}

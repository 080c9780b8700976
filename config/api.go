// Package config reads the YAML configuration of the traffic reports.
//
// A typical configuration file:
//
//	url: https://zabbix.example.com/api_jsonrpc.php
//	verifySSL: true
//	window: previousMonth
//	hosts:
//	- name: router-edge-1
//	  interfaces: [ae814, xe-0/0/1]
//	labelPatterns: [transit, peering]
//
// The API token comes from the ZABBIX_TOKEN environment variable unless the
// file sets token.
package config

import (
	"github.com/jeanrmiranda/script-zabbix/influx"
	"github.com/jeanrmiranda/script-zabbix/lib/yamlutil"
	"github.com/jeanrmiranda/script-zabbix/report"
	"github.com/jeanrmiranda/script-zabbix/window"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"io"
	"time"
)

const (
	// TokenEnv is the environment variable holding the API token.
	// It overrides the token field.
	TokenEnv = "ZABBIX_TOKEN"
	// DefaultWindow is the window used when the window field is empty.
	DefaultWindow = "previousMonth"
)

// Host is one host to report on.
type Host struct {
	// Technical host name. Required.
	Name string `yaml:"name"`
	// Interface names for the explicit-key report.
	Interfaces []string `yaml:"interfaces"`
}

func (h *Host) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type hostFields Host
	return yamlutil.StrictUnmarshalYAML(unmarshal, (*hostFields)(h))
}

// KeyTemplate overrides the item keys of the explicit-key report. Both
// fields contain one %s verb.
type KeyTemplate struct {
	In  string `yaml:"in"`
	Out string `yaml:"out"`
}

func (k *KeyTemplate) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type keyTemplateFields KeyTemplate
	return yamlutil.StrictUnmarshalYAML(unmarshal, (*keyTemplateFields)(k))
}

// Config is the whole configuration file.
// Config implements yamlutil.Config.
type Config struct {
	// Zabbix endpoint. Required.
	Url string `yaml:"url"`
	// API token. Optional if ZABBIX_TOKEN is set.
	Token string `yaml:"token"`
	// Verify the server certificate. Defaults to false.
	VerifySSL bool `yaml:"verifySSL"`
	// HTTP timeout per call like "60s". Defaults to 60s.
	Timeout time.Duration `yaml:"timeout"`
	// Send the token as an Authorization: Bearer header.
	BearerHeader bool `yaml:"bearerHeader"`
	// "last30Days" or "previousMonth". Defaults to previousMonth.
	Window string `yaml:"window"`
	// Print 95th percentiles. Defaults to true.
	PrintP95 *bool `yaml:"printP95"`
	// Print total bytes. Defaults to false.
	PrintTotal bool `yaml:"printTotal"`
	// Interfaces listed when no label matches. Defaults to 30.
	MaxShow int `yaml:"maxShow"`
	// Interfaces listed by discovery. Defaults to 40.
	DiscoverMaxShow int `yaml:"discoverMaxShow"`
	// Label patterns also match item tags.
	MatchTags bool `yaml:"matchTags"`
	// Key families searched by the label report: hc, snmp, legacy.
	// Defaults to hc.
	KeyFamilies []string `yaml:"keyFamilies"`
	// Optional. Defaults to SnmpInterfaceInTraffic[%s] and
	// SnmpInterfaceOutTraffic[%s].
	KeyTemplate *KeyTemplate `yaml:"keyTemplate"`
	// Hosts in report order. At least one required.
	Hosts []Host `yaml:"hosts"`
	// Case-insensitive substrings selecting interfaces by name.
	LabelPatterns []string `yaml:"labelPatterns"`
	// Optional export of computed summaries.
	Influx *influx.Config `yaml:"influx"`
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type configFields Config
	return yamlutil.StrictUnmarshalYAML(unmarshal, (*configFields)(c))
}

func (c *Config) Reset() {
	*c = Config{}
}

// Read initialises c from the YAML in r, applies ZABBIX_TOKEN and checks
// the result.
func Read(r io.Reader, c *Config) error {
	return read(r, c)
}

// ReadFromFile works like Read reading the file at filename.
func ReadFromFile(filename string, c *Config) error {
	return readFromFile(filename, c)
}

// Check returns an error if c is incomplete or invalid.
func (c *Config) Check() error {
	return c.check()
}

// SetWindow overrides the window field with name unless name is empty.
// SetWindow returns an error and leaves c unchanged if name is unknown.
func (c *Config) SetWindow(name string) error {
	return c.setWindow(name)
}

// WindowMode returns the window mode c names.
func (c *Config) WindowMode() (window.Mode, error) {
	return c.windowMode()
}

// Zabbix returns the client configuration.
func (c *Config) Zabbix() zabbix.Config {
	return zabbix.Config{
		Url:          c.Url,
		Token:        c.Token,
		VerifySSL:    c.VerifySSL,
		Timeout:      c.Timeout,
		BearerHeader: c.BearerHeader,
	}
}

// Report returns the reporter configuration.
func (c *Config) Report() (report.Config, error) {
	return c.report()
}

// Options returns what the text report prints.
func (c *Config) Options() report.Options {
	return report.Options{
		PrintP95:   c.PrintP95 == nil || *c.PrintP95,
		PrintTotal: c.PrintTotal,
	}
}

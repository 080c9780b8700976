package config

import (
	"errors"
	"fmt"
	"github.com/jeanrmiranda/script-zabbix/lib/yamlutil"
	"github.com/jeanrmiranda/script-zabbix/report"
	"github.com/jeanrmiranda/script-zabbix/resolve"
	"github.com/jeanrmiranda/script-zabbix/window"
	"io"
	"os"
	"strings"
)

var (
	kDefaultFamilies = []string{resolve.HCFamily.Name}
)

func read(r io.Reader, c *Config) error {
	if err := yamlutil.Read(r, c); err != nil {
		return err
	}
	return c.finish()
}

func readFromFile(filename string, c *Config) error {
	if err := yamlutil.ReadFromFile(filename, c); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if err := c.finish(); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	return nil
}

// finish applies the environment and checks the result.
func (c *Config) finish() error {
	if token := os.Getenv(TokenEnv); token != "" {
		c.Token = token
	}
	return c.check()
}

func (c *Config) check() error {
	if c.Url == "" {
		return errors.New("url required.")
	}
	if c.Token == "" {
		return fmt.Errorf("token required: set %s.", TokenEnv)
	}
	if len(c.Hosts) == 0 {
		return errors.New("At least one host required.")
	}
	for i := range c.Hosts {
		if c.Hosts[i].Name == "" {
			return errors.New("Host name required.")
		}
	}
	if _, err := c.windowMode(); err != nil {
		return err
	}
	if _, err := c.families(); err != nil {
		return err
	}
	if c.KeyTemplate != nil {
		if strings.Count(c.KeyTemplate.In, "%s") != 1 ||
			strings.Count(c.KeyTemplate.Out, "%s") != 1 {
			return errors.New("keyTemplate in and out need exactly one %s.")
		}
	}
	if c.MaxShow < 0 || c.DiscoverMaxShow < 0 {
		return errors.New("maxShow and discoverMaxShow must be positive.")
	}
	if c.Influx != nil {
		if err := c.Influx.Check(); err != nil {
			return fmt.Errorf("influx: %w", err)
		}
	}
	return nil
}

func (c *Config) windowMode() (window.Mode, error) {
	name := c.Window
	if name == "" {
		name = DefaultWindow
	}
	mode, ok := window.ByName(name)
	if !ok {
		return mode, fmt.Errorf(
			"Unknown window %q: want last30Days or previousMonth.", c.Window)
	}
	return mode, nil
}

func (c *Config) setWindow(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := window.ByName(name); !ok {
		return fmt.Errorf(
			"Unknown window %q: want last30Days or previousMonth.", name)
	}
	c.Window = name
	return nil
}

func (c *Config) families() ([]*resolve.KeyFamily, error) {
	names := c.KeyFamilies
	if len(names) == 0 {
		names = kDefaultFamilies
	}
	result := make([]*resolve.KeyFamily, len(names))
	for i, name := range names {
		family, ok := resolve.FamilyByName(name)
		if !ok {
			return nil, fmt.Errorf("Unknown key family %q.", name)
		}
		result[i] = family
	}
	return result, nil
}

func (c *Config) report() (report.Config, error) {
	families, err := c.families()
	if err != nil {
		return report.Config{}, err
	}
	result := report.Config{
		LabelPatterns:   c.LabelPatterns,
		Families:        families,
		MatchTags:       c.MatchTags,
		MaxShow:         c.MaxShow,
		DiscoverMaxShow: c.DiscoverMaxShow,
	}
	if c.KeyTemplate != nil {
		result.KeyTemplate = resolve.KeyTemplate{
			In:  c.KeyTemplate.In,
			Out: c.KeyTemplate.Out,
		}
	}
	for _, host := range c.Hosts {
		result.Hosts = append(result.Hosts, report.Host{
			Name:       host.Name,
			Interfaces: host.Interfaces,
		})
	}
	return result, nil
}

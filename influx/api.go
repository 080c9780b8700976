// Package influx exports computed interface traffic summaries to InfluxDB.
package influx

import (
	"github.com/influxdata/influxdb/client/v2"
	"github.com/jeanrmiranda/script-zabbix/lib/yamlutil"
	"github.com/jeanrmiranda/script-zabbix/report"
	"github.com/jeanrmiranda/script-zabbix/window"
)

// DefaultMeasurement is the measurement used when Config.Measurement is
// empty.
const DefaultMeasurement = "interface_traffic"

// Endpoint is one InfluxDB server.
type Endpoint struct {
	// like "http://localhost:8086". Required.
	HostAndPort string `yaml:"hostAndPort"`
	// The user name. Optional.
	UserName string `yaml:"username"`
	// The password. Optional.
	Password string `yaml:"password"`
}

func (e *Endpoint) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type endpointFields Endpoint
	return yamlutil.StrictUnmarshalYAML(unmarshal, (*endpointFields)(e))
}

// Config represents the configuration of the InfluxDB export.
// Config implements yamlutil.Config.
type Config struct {
	// The database name. Required.
	Database string `yaml:"database"`
	// The retention policy to use when writing. Optional.
	RetentionPolicy string `yaml:"retentionPolicy"`
	// Optional. Defaults to DefaultMeasurement.
	Measurement string `yaml:"measurement"`
	// Every point is written to each endpoint. At least one required.
	Endpoints []Endpoint `yaml:"endpoints"`
}

func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type configFields Config
	return yamlutil.StrictUnmarshalYAML(unmarshal, (*configFields)(c))
}

func (c *Config) Reset() {
	*c = Config{}
}

// Check returns an error if a required field is missing.
func (c *Config) Check() error {
	return c.checkRequiredFields()
}

// NewWriter returns a Writer for this configuration.
func (c *Config) NewWriter() (*Writer, error) {
	return newWriter(c)
}

// Writer writes the records of each host as points.
// Writer implements report.Sink.
type Writer struct {
	clients     []client.Client
	batchConfig client.BatchPointsConfig
	measurement string
}

// Write writes one point per direction summary present in records.
func (w *Writer) Write(
	host string, period window.Window, records []*report.Record) error {
	return w.write(host, period, records)
}

// Close closes the connections to every endpoint.
func (w *Writer) Close() error {
	return w.close()
}

// Points returns the points Write would write for the records of host.
// Each point is tagged with host, interface, label and direction and
// timestamped at the start of period.
func Points(
	measurement string,
	host string,
	period window.Window,
	records []*report.Record) ([]*client.Point, error) {
	return points(measurement, host, period, records)
}

package influx

import (
	"errors"
	"github.com/influxdata/influxdb/client/v2"
	"github.com/jeanrmiranda/script-zabbix/report"
	"github.com/jeanrmiranda/script-zabbix/resolve"
	"github.com/jeanrmiranda/script-zabbix/stats"
	"github.com/jeanrmiranda/script-zabbix/window"
	"strings"
)

const (
	kTagHost      = "host"
	kTagInterface = "interface"
	kTagLabel     = "label"
	kTagDirection = "direction"
	kFieldMean    = "mean"
	kFieldMin     = "min"
	kFieldMax     = "max"
	kFieldP95     = "p95"
	kFieldTotal   = "total_bytes"
	kFieldBuckets = "buckets"
)

func (c *Config) checkRequiredFields() error {
	for i := range c.Endpoints {
		if c.Endpoints[i].HostAndPort == "" {
			return errors.New("HostAndPort required field in endpoint.")
		}
	}
	if len(c.Endpoints) == 0 || c.Database == "" {
		return errors.New("Endpoints and Database fields required.")
	}
	return nil
}

func newWriter(c *Config) (*Writer, error) {
	if err := c.checkRequiredFields(); err != nil {
		return nil, err
	}
	clients := make([]client.Client, len(c.Endpoints))
	for i := range c.Endpoints {
		var err error
		clients[i], err = client.NewHTTPClient(client.HTTPConfig{
			Addr:     c.Endpoints[i].HostAndPort,
			Username: c.Endpoints[i].UserName,
			Password: c.Endpoints[i].Password,
		})
		if err != nil {
			return nil, err
		}
	}
	measurement := c.Measurement
	if measurement == "" {
		measurement = DefaultMeasurement
	}
	return &Writer{
		clients: clients,
		batchConfig: client.BatchPointsConfig{
			Database:        c.Database,
			RetentionPolicy: c.RetentionPolicy,
		},
		measurement: measurement,
	}, nil
}

func (w *Writer) write(
	host string, period window.Window, records []*report.Record) error {
	batchPoints, err := client.NewBatchPoints(w.batchConfig)
	if err != nil {
		return err
	}
	pts, err := points(w.measurement, host, period, records)
	if err != nil {
		return err
	}
	if len(pts) == 0 {
		return nil
	}
	for _, point := range pts {
		batchPoints.AddPoint(point)
	}
	for i := range w.clients {
		if err := w.clients[i].Write(batchPoints); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) close() error {
	var messages []string
	for i := range w.clients {
		if err := w.clients[i].Close(); err != nil {
			messages = append(messages, err.Error())
		}
	}
	if len(messages) != 0 {
		return errors.New(strings.Join(messages, "; "))
	}
	return nil
}

func points(
	measurement string,
	host string,
	period window.Window,
	records []*report.Record) (result []*client.Point, err error) {
	for _, record := range records {
		for _, direction := range []resolve.Direction{resolve.In, resolve.Out} {
			summary := record.In
			if direction == resolve.Out {
				summary = record.Out
			}
			if summary == nil {
				continue
			}
			point, err := createPoint(
				measurement, host, period, record, direction, summary)
			if err != nil {
				return nil, err
			}
			result = append(result, point)
		}
	}
	return
}

func createPoint(
	measurement string,
	host string,
	period window.Window,
	record *report.Record,
	direction resolve.Direction,
	summary *stats.Summary) (*client.Point, error) {
	tags := map[string]string{
		kTagHost:      host,
		kTagInterface: record.Id.Value(),
		kTagLabel:     record.DisplayLabel(),
		kTagDirection: strings.ToLower(direction.String()),
	}
	fields := map[string]interface{}{
		kFieldMean:    summary.Mean,
		kFieldMin:     summary.Min,
		kFieldMax:     summary.Max,
		kFieldP95:     summary.P95,
		kFieldTotal:   summary.TotalBytes,
		kFieldBuckets: summary.Buckets,
	}
	return client.NewPoint(measurement, tags, fields, period.From)
}

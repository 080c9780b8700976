package zabbix_test

import (
	"encoding/json"
	"errors"
	"github.com/jeanrmiranda/script-zabbix/zabbix"
	"github.com/jeanrmiranda/script-zabbix/zabbix/zabbixtest"
	. "github.com/smartystreets/goconvey/convey"
	"net/http"
	"testing"
)

func newClient(server *zabbixtest.Server, bearer bool) *zabbix.Client {
	return zabbix.NewClient(
		zabbix.Config{
			Url:          server.Url(),
			Token:        "secret",
			BearerHeader: bearer,
		},
		nil)
}

func TestCall(t *testing.T) {
	Convey("Given a fake server", t, func() {
		server := zabbixtest.NewServer()
		defer server.Close()
		client := newClient(server, false)

		Convey("Request carries JSON-RPC envelope and token", func() {
			server.HandleResult("apiinfo.version", "6.0.25")
			var version string
			So(client.Call("apiinfo.version", map[string]interface{}{}, &version), ShouldBeNil)
			So(version, ShouldEqual, "6.0.25")
			requests := server.Requests()
			So(requests, ShouldHaveLength, 1)
			So(requests[0].JsonRpc, ShouldEqual, "2.0")
			So(requests[0].Method, ShouldEqual, "apiinfo.version")
			So(requests[0].Auth, ShouldEqual, "secret")
			So(requests[0].Authorization, ShouldBeEmpty)
		})

		Convey("Error member becomes ApiError", func() {
			server.Handle("item.get", func(*zabbixtest.Request) (interface{}, *zabbixtest.Error) {
				return nil, &zabbixtest.Error{
					Code:    -32602,
					Message: "Invalid params.",
					Data:    "Not authorised.",
				}
			})
			_, err := client.Items(zabbix.ItemQuery{Host: "edge1"})
			var apiErr *zabbix.ApiError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Method, ShouldEqual, "item.get")
			So(apiErr.Code, ShouldEqual, -32602)
			So(apiErr.Data, ShouldEqual, "Not authorised.")
			So(err.Error(), ShouldContainSubstring, "Not authorised.")
		})

		Convey("Non 2xx response becomes TransportError", func() {
			server.FailWithStatus(http.StatusBadGateway)
			_, err := client.Hosts("edge1")
			var transportErr *zabbix.TransportError
			So(errors.As(err, &transportErr), ShouldBeTrue)
			So(transportErr.StatusCode, ShouldEqual, http.StatusBadGateway)
			So(transportErr.Method, ShouldEqual, "host.get")
		})

		Convey("Unknown method is an ApiError", func() {
			err := client.Call("nope.get", map[string]interface{}{}, nil)
			var apiErr *zabbix.ApiError
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Code, ShouldEqual, -32601)
		})
	})

	Convey("Bearer header replaces auth member", t, func() {
		server := zabbixtest.NewServer()
		defer server.Close()
		server.HandleResult("host.get", []zabbix.Host{{HostId: "10084", Host: "edge1"}})
		client := newClient(server, true)
		hosts, err := client.Hosts("edge1")
		So(err, ShouldBeNil)
		So(hosts, ShouldResemble, []zabbix.Host{{HostId: "10084", Host: "edge1"}})
		requests := server.Requests()
		So(requests[0].Auth, ShouldBeEmpty)
		So(requests[0].Authorization, ShouldEqual, "Bearer secret")
		var filter map[string][]string
		So(requests[0].Param("filter", &filter), ShouldBeTrue)
		So(filter["host"], ShouldResemble, []string{"edge1"})
	})

	Convey("Connection failure is a TransportError", t, func() {
		server := zabbixtest.NewServer()
		client := newClient(server, false)
		server.Close()
		_, err := client.Hosts("edge1")
		var transportErr *zabbix.TransportError
		So(errors.As(err, &transportErr), ShouldBeTrue)
		So(transportErr.StatusCode, ShouldEqual, 0)
	})
}

func TestItems(t *testing.T) {
	Convey("Item queries", t, func() {
		server := zabbixtest.NewServer()
		defer server.Close()
		server.HandleResult("item.get", []map[string]interface{}{
			{
				"itemid": "4242",
				"name":   "Interface ae2: Bits received",
				"key_":   "net.if.in[ifHCInOctets.12]",
				"units":  "bps",
				"tags": []map[string]string{
					{"tag": "interface", "value": "ae2"},
				},
			},
		})
		client := newClient(server, false)

		Convey("Search by key prefix with tags", func() {
			items, err := client.Items(zabbix.ItemQuery{
				Host:      "edge1",
				KeySearch: "net.if.in[ifHCInOctets.",
				WithTags:  true,
				Limit:     10000,
			})
			So(err, ShouldBeNil)
			So(items, ShouldResemble, []zabbix.Item{
				{
					ItemId: "4242",
					Name:   "Interface ae2: Bits received",
					Key:    "net.if.in[ifHCInOctets.12]",
					Units:  "bps",
					Tags:   []zabbix.Tag{{Tag: "interface", Value: "ae2"}},
				},
			})
			req := server.Requests()[0]
			var search map[string]string
			So(req.Param("search", &search), ShouldBeTrue)
			So(search["key_"], ShouldEqual, "net.if.in[ifHCInOctets.")
			var wildcards bool
			So(req.Param("searchWildcardsEnabled", &wildcards), ShouldBeTrue)
			So(wildcards, ShouldBeTrue)
			var selectTags string
			So(req.Param("selectTags", &selectTags), ShouldBeTrue)
			var limit int
			So(req.Param("limit", &limit), ShouldBeTrue)
			So(limit, ShouldEqual, 10000)
			So(req.Param("filter", &search), ShouldBeFalse)
		})

		Convey("Filter by exact keys", func() {
			_, err := client.Items(zabbix.ItemQuery{
				Host: "edge1",
				Keys: []string{"a", "b"},
			})
			So(err, ShouldBeNil)
			req := server.Requests()[0]
			var filter map[string][]string
			So(req.Param("filter", &filter), ShouldBeTrue)
			So(filter["key_"], ShouldResemble, []string{"a", "b"})
			var host string
			So(req.Param("host", &host), ShouldBeTrue)
			So(host, ShouldEqual, "edge1")
			So(req.Param("selectTags", &host), ShouldBeFalse)
		})
	})
}

func TestTrends(t *testing.T) {
	Convey("Trend buckets decode from strings and numbers", t, func() {
		server := zabbixtest.NewServer()
		defer server.Close()
		server.HandleResult("trend.get", json.RawMessage(`[
			{"clock":"1735689600","num":"0","value_avg":"0","value_min":"0","value_max":"0"},
			{"clock":1735693200,"num":60,"value_avg":"1500.5","value_min":1000,"value_max":"2000"}
		]`))
		client := newClient(server, false)
		buckets, err := client.Trends("4242", 1735689600, 1738367999)
		So(err, ShouldBeNil)
		So(buckets, ShouldResemble, []zabbix.TrendBucket{
			{Clock: 1735689600},
			{
				Clock:    1735693200,
				Num:      60,
				ValueAvg: 1500.5,
				ValueMin: 1000,
				ValueMax: 2000,
			},
		})
		req := server.Requests()[0]
		var from, till int64
		So(req.Param("time_from", &from), ShouldBeTrue)
		So(req.Param("time_till", &till), ShouldBeTrue)
		So(from, ShouldEqual, 1735689600)
		So(till, ShouldEqual, 1738367999)
		var itemIds string
		So(req.Param("itemids", &itemIds), ShouldBeTrue)
		So(itemIds, ShouldEqual, "4242")
	})

	Convey("Garbage numbers are rejected", t, func() {
		var bucket zabbix.TrendBucket
		err := json.Unmarshal([]byte(`{"clock":"x","num":"1"}`), &bucket)
		So(err, ShouldNotBeNil)
	})
}

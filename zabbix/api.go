// Package zabbix is a small client for the Zabbix JSON-RPC API covering the
// calls needed to report interface traffic: item.get, host.get,
// hostinterface.get and trend.get.
//
// A Client sends each request once. There is no retry and no backoff.
// Failures come back as *TransportError when the HTTP exchange fails and as
// *ApiError when Zabbix answers with an error object.
package zabbix

import (
	"log"
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the HTTP timeout used when Config.Timeout is zero.
	DefaultTimeout = 60 * time.Second
	// SNMPInterfaceType is the hostinterface type of SNMP agents.
	SNMPInterfaceType = "2"
)

// Config configures a Client.
type Config struct {
	// like "https://zabbix.example.com/api_jsonrpc.php". Required.
	Url string `yaml:"url"`
	// API token. Usually supplied through the environment instead.
	Token string `yaml:"token"`
	// If false, the server certificate is not verified.
	VerifySSL bool `yaml:"verifySSL"`
	// HTTP timeout per call. Zero means DefaultTimeout.
	Timeout time.Duration `yaml:"timeout"`
	// If true, the token goes in an "Authorization: Bearer" header
	// instead of the "auth" member of the request. Zabbix 6.4 and later.
	BearerHeader bool `yaml:"bearerHeader"`
}

// Client sends JSON-RPC requests to one Zabbix server.
// Client instances are NOT safe to use with multiple goroutines.
type Client struct {
	url    string
	token  string
	bearer bool
	client *http.Client
	logger *log.Logger
	lastId int
}

// NewClient returns a new Client. If logger is non-nil, each call is logged
// with its duration.
func NewClient(config Config, logger *log.Logger) *Client {
	return newClient(config, logger)
}

// Call invokes method with params and decodes the "result" member of the
// response into result. result may be nil to discard the result.
func (c *Client) Call(method string, params, result interface{}) error {
	return c.call(method, params, result)
}

// TransportError reports a failed HTTP exchange: connection errors,
// timeouts, non 2xx responses and bodies that are not JSON-RPC responses.
type TransportError struct {
	Method string
	// HTTP status code or 0 if no response arrived
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return e.error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ApiError is the error object Zabbix returns for a failed call.
type ApiError struct {
	Method  string `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data"`
}

func (e *ApiError) Error() string {
	return e.error()
}

// Tag is an item tag.
type Tag struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// Item is the handle for one monitored metric such as the inbound octet
// counter of an interface.
type Item struct {
	ItemId string `json:"itemid"`
	Name   string `json:"name"`
	Key    string `json:"key_"`
	Units  string `json:"units"`
	// Only present if requested with ItemQuery.WithTags
	Tags []Tag `json:"tags,omitempty"`
}

// Host is a monitored host.
type Host struct {
	HostId string `json:"hostid"`
	Host   string `json:"host"`
	Name   string `json:"name"`
}

// HostInterface is one agent interface of a host.
type HostInterface struct {
	InterfaceId string `json:"interfaceid"`
	HostId      string `json:"hostid"`
	// "1" agent, "2" SNMP, "3" IPMI, "4" JMX
	Type string `json:"type"`
	// "1" if this is the default interface of its type
	Main string `json:"main"`
	Ip   string `json:"ip"`
	Dns  string `json:"dns"`
	Port string `json:"port"`
}

// TrendBucket is one hourly pre-aggregated sample of an item.
// Zabbix encodes these numbers as JSON strings; UnmarshalJSON accepts
// strings and numbers alike.
type TrendBucket struct {
	// Start of the hour in seconds since Jan 1, 1970
	Clock int64
	// Number of values collected during the hour. 0 means no data.
	Num      int64
	ValueAvg float64
	ValueMin float64
	ValueMax float64
}

func (t *TrendBucket) UnmarshalJSON(b []byte) error {
	return t.unmarshalJSON(b)
}

// ItemQuery selects the items of one host.
type ItemQuery struct {
	// Technical host name. Required.
	Host string
	// If non-empty, match items whose key contains KeySearch.
	KeySearch string
	// If non-empty, match items whose key is one of Keys exactly.
	Keys []string
	// If true, fetch item tags too.
	WithTags bool
	// Maximum items returned. 0 means no limit.
	Limit int
}

// Items runs item.get.
func (c *Client) Items(query ItemQuery) ([]Item, error) {
	var result []Item
	if err := c.call("item.get", query.params(), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Hosts runs host.get for hosts whose technical name is one of hostNames.
func (c *Client) Hosts(hostNames ...string) ([]Host, error) {
	var result []Host
	if err := c.call("host.get", hostsParams(hostNames), &result); err != nil {
		return nil, err
	}
	return result, nil
}

// HostInterfaces runs hostinterface.get for the given host ids.
func (c *Client) HostInterfaces(hostIds ...string) ([]HostInterface, error) {
	var result []HostInterface
	if err := c.call(
		"hostinterface.get",
		hostInterfacesParams(hostIds),
		&result); err != nil {
		return nil, err
	}
	return result, nil
}

// Trends runs trend.get for one item between from and till inclusive,
// both in seconds since Jan 1, 1970. Buckets come back sorted by clock.
func (c *Client) Trends(itemId string, from, till int64) (
	[]TrendBucket, error) {
	var result []TrendBucket
	if err := c.call(
		"trend.get", trendsParams(itemId, from, till), &result); err != nil {
		return nil, err
	}
	return result, nil
}

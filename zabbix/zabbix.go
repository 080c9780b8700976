package zabbix

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	kJsonRpcVersion = "2.0"
	kContentType    = "application/json-rpc"
)

var (
	kErrNoResult = errors.New("response has neither result nor error")
)

type requestType struct {
	JsonRpc string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	Auth    string      `json:"auth,omitempty"`
	Id      int         `json:"id"`
}

type responseType struct {
	Result json.RawMessage `json:"result"`
	Error  *ApiError       `json:"error"`
}

func newClient(config Config, logger *log.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:    config.Url,
		token:  config.Token,
		bearer: config.BearerHeader,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !config.VerifySSL,
				},
			},
		},
		logger: logger,
	}
}

func (c *Client) newRequest(method string, params interface{}) (
	*http.Request, error) {
	c.lastId++
	payload := requestType{
		JsonRpc: kJsonRpcVersion,
		Method:  method,
		Params:  params,
		Id:      c.lastId,
	}
	if !c.bearer {
		payload.Auth = c.token
	}
	body, err := json.Marshal(&payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest("POST", c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", kContentType)
	if c.bearer && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) call(method string, params, result interface{}) error {
	req, err := c.newRequest(method, params)
	if err != nil {
		return &TransportError{Method: method, Err: err}
	}
	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return &TransportError{Method: method, Err: err}
	}
	defer resp.Body.Close()
	if c.logger != nil {
		c.logger.Printf(
			"%s: HTTP %d in %v", method, resp.StatusCode, time.Since(start))
	}
	var buffer bytes.Buffer
	if _, err := buffer.ReadFrom(resp.Body); err != nil {
		return &TransportError{
			Method: method, StatusCode: resp.StatusCode, Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return &TransportError{
			Method:     method,
			StatusCode: resp.StatusCode,
			Err:        errors.New(strings.TrimSpace(buffer.String())),
		}
	}
	var response responseType
	if err := json.Unmarshal(buffer.Bytes(), &response); err != nil {
		return &TransportError{
			Method: method, StatusCode: resp.StatusCode, Err: err}
	}
	if response.Error != nil {
		response.Error.Method = method
		return response.Error
	}
	if response.Result == nil {
		return &TransportError{
			Method: method, StatusCode: resp.StatusCode, Err: kErrNoResult}
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(response.Result, result); err != nil {
		return &TransportError{
			Method: method, StatusCode: resp.StatusCode, Err: err}
	}
	return nil
}

func (e *TransportError) error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf(
			"%s: HTTP %d: %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *ApiError) error() string {
	if e.Data != "" {
		return fmt.Sprintf(
			"%s: %s %s (code %d)", e.Method, e.Message, e.Data, e.Code)
	}
	return fmt.Sprintf("%s: %s (code %d)", e.Method, e.Message, e.Code)
}

func (q ItemQuery) params() map[string]interface{} {
	result := map[string]interface{}{
		"output":    []string{"itemid", "name", "key_", "units"},
		"host":      q.Host,
		"sortfield": "name",
	}
	if q.KeySearch != "" {
		result["search"] = map[string]string{"key_": q.KeySearch}
		result["searchWildcardsEnabled"] = true
	}
	if len(q.Keys) > 0 {
		result["filter"] = map[string][]string{"key_": q.Keys}
	}
	if q.WithTags {
		result["selectTags"] = "extend"
	}
	if q.Limit > 0 {
		result["limit"] = q.Limit
	}
	return result
}

func hostsParams(hostNames []string) map[string]interface{} {
	return map[string]interface{}{
		"output": []string{"hostid", "host", "name"},
		"filter": map[string][]string{"host": hostNames},
	}
}

func hostInterfacesParams(hostIds []string) map[string]interface{} {
	return map[string]interface{}{
		"output": []string{
			"interfaceid", "hostid", "type", "main", "ip", "dns", "port"},
		"hostids": hostIds,
	}
}

func trendsParams(itemId string, from, till int64) map[string]interface{} {
	return map[string]interface{}{
		"output": []string{
			"clock", "num", "value_avg", "value_min", "value_max"},
		"itemids":   itemId,
		"time_from": from,
		"time_till": till,
		"sortfield": "clock",
		"sortorder": "ASC",
	}
}

type rawTrendBucket struct {
	Clock    json.RawMessage `json:"clock"`
	Num      json.RawMessage `json:"num"`
	ValueAvg json.RawMessage `json:"value_avg"`
	ValueMin json.RawMessage `json:"value_min"`
	ValueMax json.RawMessage `json:"value_max"`
}

func (t *TrendBucket) unmarshalJSON(b []byte) error {
	var raw rawTrendBucket
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var result TrendBucket
	var err error
	if result.Clock, err = parseInt(raw.Clock); err != nil {
		return fmt.Errorf("clock: %v", err)
	}
	if result.Num, err = parseInt(raw.Num); err != nil {
		return fmt.Errorf("num: %v", err)
	}
	if result.ValueAvg, err = parseFloat(raw.ValueAvg); err != nil {
		return fmt.Errorf("value_avg: %v", err)
	}
	if result.ValueMin, err = parseFloat(raw.ValueMin); err != nil {
		return fmt.Errorf("value_min: %v", err)
	}
	if result.ValueMax, err = parseFloat(raw.ValueMax); err != nil {
		return fmt.Errorf("value_max: %v", err)
	}
	*t = result
	return nil
}

// unquote returns the text of a JSON string or number. Missing and null
// values come back empty.
func unquote(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(raw), nil
}

func parseInt(raw json.RawMessage) (int64, error) {
	s, err := unquote(raw)
	if err != nil || s == "" {
		return 0, err
	}
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(raw json.RawMessage) (float64, error) {
	s, err := unquote(raw)
	if err != nil || s == "" {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

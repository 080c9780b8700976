package yamlutil

import (
	"bytes"
	"fmt"
	"gopkg.in/yaml.v2"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"
)

func yamlName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name != "" {
		return name
	}
	if field.PkgPath != "" {
		return ""
	}
	return strings.ToLower(field.Name)
}

func knownFields(structPtr interface{}) map[string]bool {
	t := reflect.TypeOf(structPtr).Elem()
	result := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := yamlName(t.Field(i)); name != "" {
			result[name] = true
		}
	}
	return result
}

func strictUnmarshalYAML(
	unmarshal func(interface{}) error, structPtr interface{}) error {
	if err := unmarshal(structPtr); err != nil {
		return err
	}
	var nameValues map[string]interface{}
	if err := unmarshal(&nameValues); err != nil {
		return err
	}
	known := knownFields(structPtr)
	var unrecognised []string
	for name := range nameValues {
		if !known[name] {
			unrecognised = append(unrecognised, name)
		}
	}
	if len(unrecognised) == 0 {
		return nil
	}
	sort.Strings(unrecognised)
	return fmt.Errorf(
		"Unrecognized fields: %s", strings.Join(unrecognised, ", "))
}

func read(r io.Reader, c Config) error {
	var content bytes.Buffer
	if _, err := content.ReadFrom(r); err != nil {
		return err
	}
	c.Reset()
	return yaml.Unmarshal(content.Bytes(), c)
}

func readFromFile(filename string, c Config) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return read(f, c)
}

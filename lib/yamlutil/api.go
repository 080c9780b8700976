// Package yamlutil reads hand written YAML configuration files strictly.
//
// gopkg.in/yaml.v2 ignores fields it does not recognise. A struct gets
// strict unmarshaling by defining an UnmarshalYAML method that delegates to
// StrictUnmarshalYAML through a conversion to a method-less copy of its
// type:
//
//	func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
//		type configFields Config
//		return yamlutil.StrictUnmarshalYAML(unmarshal, (*configFields)(c))
//	}
//
// Strictness is not recursive. Each nested struct that needs it must define
// its own UnmarshalYAML.
package yamlutil

import (
	"io"
)

// StrictUnmarshalYAML unmarshals YAML storing at structPtr, but returns an
// error naming every unrecognised top level field.
//
// unmarshal is what is passed to the standard UnmarshalYAML method.
// structPtr must be a pointer to a struct, not a slice or map.
func StrictUnmarshalYAML(
	unmarshal func(interface{}) error, structPtr interface{}) error {
	return strictUnmarshalYAML(unmarshal, structPtr)
}

// Config is a configuration that can be read from YAML.
type Config interface {
	// Reset resets this instance in place
	Reset()
}

// Read resets c and initialises it from the YAML in r.
func Read(r io.Reader, c Config) error {
	return read(r, c)
}

// ReadFromFile resets c and initialises it from the YAML file at filename.
func ReadFromFile(filename string, c Config) error {
	return readFromFile(filename, c)
}

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OperatorList is the shape of the YAML file named by
// Settings.ConfigFilename: a flat list of registered operator names to
// build and bind to queues.
type OperatorList struct {
	Operators []string `yaml:"operators"`
}

// ReadOperatorList reads and parses filename into an ordered operator
// name list.
func ReadOperatorList(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filename, err)
	}
	defer f.Close()

	var list OperatorList
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&list); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return list.Operators, nil
}

// Package config loads broker connection settings from the environment
// and an operator list from a YAML file, the two configuration surfaces
// the original process read at startup.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Settings holds the broker connection parameters and the path to the
// operator list file. Every field is required: Load returns an error
// naming the first missing variable rather than silently defaulting,
// since a missing credential should fail startup, not produce a broker
// connection with an empty username.
type Settings struct {
	Host           string
	Port           int
	VirtualHost    string
	Username       string
	Password       string
	ConfigFilename string
}

// Load reads Settings from the process environment:
// HOST, PORT, VIRTUAL_HOST, USERNAME, PASSWORD, CONFIG_FILENAME.
func Load() (Settings, error) {
	host, err := require("HOST")
	if err != nil {
		return Settings{}, err
	}
	portStr, err := require("PORT")
	if err != nil {
		return Settings{}, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return Settings{}, fmt.Errorf("PORT: %w", err)
	}
	vhost, err := require("VIRTUAL_HOST")
	if err != nil {
		return Settings{}, err
	}
	username, err := require("USERNAME")
	if err != nil {
		return Settings{}, err
	}
	password, err := require("PASSWORD")
	if err != nil {
		return Settings{}, err
	}
	configFilename, err := require("CONFIG_FILENAME")
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Host:           host,
		Port:           port,
		VirtualHost:    vhost,
		Username:       username,
		Password:       password,
		ConfigFilename: configFilename,
	}, nil
}

func require(name string) (string, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required environment variable %s", name)
	}
	return v, nil
}

/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package daemon

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"

	"github.com/stepclock/stepclock/ntp"
)

// Config represents configuration we expect to read from file
type Config struct {
	NTPServer      string        // "host:port" of the NTP server to poll
	TimezoneURL    string        // offset lookup service endpoint
	StateFile      string        // where the 3-byte displayed time record lives
	ConfigFile     string        // where the provisioning flow writes the location
	PinA           int           // GPIO pin of the first coil line
	PinB           int           // GPIO pin of the second coil line
	SerialPort     string        // serial device of a driver board, used instead of GPIO when set
	MonitoringPort int           // port to serve metrics on, 0 disables
	Interval       time.Duration // cadence of the target clock, one real second
}

// DefaultConfig returns config with sane defaults set
func DefaultConfig() *Config {
	return &Config{
		NTPServer: ntp.DefaultServer,
		Interval:  time.Second,
	}
}

// EvalAndValidate makes sure config is valid
func (c *Config) EvalAndValidate() error {
	if c.NTPServer == "" {
		return fmt.Errorf("bad config: 'ntpserver' must be specified")
	}
	if c.TimezoneURL == "" {
		return fmt.Errorf("bad config: 'timezoneurl' must be specified")
	}
	if c.StateFile == "" {
		return fmt.Errorf("bad config: 'statefile' must be specified")
	}
	if c.ConfigFile == "" {
		return fmt.Errorf("bad config: 'configfile' must be specified")
	}
	if c.SerialPort == "" && c.PinA == c.PinB {
		return fmt.Errorf("bad config: either 'serialport' or distinct 'pina'/'pinb' must be specified")
	}
	if c.Interval <= 0 || c.Interval > time.Minute {
		return fmt.Errorf("bad config: 'interval' must be within (0s, 1m]")
	}
	return nil
}

// ReadConfig reads config and unmarshals it from yaml into Config
func ReadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := DefaultConfig()
	err = yaml.UnmarshalStrict(data, c)
	return c, err
}

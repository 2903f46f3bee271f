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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := DefaultConfig()
	c.TimezoneURL = "https://maps.example.com/timezone/json"
	c.StateFile = "/var/lib/stepclock/time.bin"
	c.ConfigFile = "/var/lib/stepclock/config.json"
	c.PinA = 17
	c.PinB = 27
	return c
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().EvalAndValidate())

	c := validConfig()
	c.NTPServer = ""
	require.Error(t, c.EvalAndValidate())

	c = validConfig()
	c.TimezoneURL = ""
	require.Error(t, c.EvalAndValidate())

	c = validConfig()
	c.StateFile = ""
	require.Error(t, c.EvalAndValidate())

	c = validConfig()
	c.PinA, c.PinB = 4, 4
	require.Error(t, c.EvalAndValidate())
	c.SerialPort = "/dev/ttyUSB0"
	require.NoError(t, c.EvalAndValidate())

	c = validConfig()
	c.Interval = 2 * time.Minute
	require.Error(t, c.EvalAndValidate())
}

func TestReadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`ntpserver: "ntp.example.com:123"
timezoneurl: "https://maps.example.com/timezone/json"
statefile: "/var/lib/stepclock/time.bin"
configfile: "/var/lib/stepclock/config.json"
pina: 17
pinb: 27
monitoringport: 8889
`), 0644))

	c, err := ReadConfig(path)
	require.NoError(t, err)
	require.NoError(t, c.EvalAndValidate())
	require.Equal(t, "ntp.example.com:123", c.NTPServer)
	require.Equal(t, 17, c.PinA)
	require.Equal(t, 8889, c.MonitoringPort)
	require.Equal(t, time.Second, c.Interval)
}

func TestReadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stepclock.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nosuchkey: 1\n"), 0644))
	_, err := ReadConfig(path)
	require.Error(t, err)
}

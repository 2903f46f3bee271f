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

package actuator

import (
	"fmt"
	"io"

	"go.bug.st/serial"
)

// SerialDriver pulses the coil lines through a serial-attached driver
// board. The board speaks a two-byte line protocol: 'A' or 'B' selects
// the coil line, '1' or '0' the level, newline terminated.
type SerialDriver struct {
	port io.Writer
}

// NewSerialDriver opens the serial device the driver board sits on
func NewSerialDriver(device string) (*SerialDriver, error) {
	mode := &serial.Mode{
		BaudRate: 9600,
	}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", device, err)
	}
	return &SerialDriver{port: port}, nil
}

// Set implements PulseDriver
func (d *SerialDriver) Set(line int, high bool) error {
	cmd := []byte{'A' + byte(line), '0', '\n'}
	if high {
		cmd[1] = '1'
	}
	_, err := d.port.Write(cmd)
	return err
}

// Close releases the serial port
func (d *SerialDriver) Close() error {
	if closer, ok := d.port.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

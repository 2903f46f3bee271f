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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

const sysfsGPIO = "/sys/class/gpio"

// GPIODriver pulses the coil lines through Linux sysfs GPIO pins
type GPIODriver struct {
	// Root exists to point tests at a fake sysfs tree
	Root string

	pins [2]int
}

// NewGPIODriver exports the two pins and configures them as outputs
func NewGPIODriver(pinA, pinB int) (*GPIODriver, error) {
	d := &GPIODriver{Root: sysfsGPIO, pins: [2]int{pinA, pinB}}
	for _, pin := range d.pins {
		if err := d.export(pin); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *GPIODriver) export(pin int) error {
	dir := filepath.Join(d.Root, fmt.Sprintf("gpio%d", pin))
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(filepath.Join(d.Root, "export"), []byte(fmt.Sprintf("%d", pin)), 0644); err != nil {
			return fmt.Errorf("exporting gpio %d: %w", pin, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "direction"), []byte("out"), 0644); err != nil {
		return fmt.Errorf("setting gpio %d direction: %w", pin, err)
	}
	log.Debugf("gpio %d ready", pin)
	return nil
}

// Set implements PulseDriver
func (d *GPIODriver) Set(line int, high bool) error {
	v := "0"
	if high {
		v = "1"
	}
	path := filepath.Join(d.Root, fmt.Sprintf("gpio%d", d.pins[line]), "value")
	return os.WriteFile(path, []byte(v), 0644)
}

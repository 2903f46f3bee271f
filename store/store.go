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

// Package store persists the two records that survive power loss: the
// 3-byte displayed-time record and the provisioning config with the
// clock's location.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

// File is a fixed-size byte record stored in a single file.
// It satisfies the actuator's ByteStore interface.
type File struct {
	Path string
}

// Load reads exactly len(buf) bytes from the record file.
// A missing file yields a zero record so a fresh device starts clean.
func (f *File) Load(buf []byte) error {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		for i := range buf {
			buf[i] = 0
		}
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) != len(buf) {
		return fmt.Errorf("record %s is %d bytes, want %d", f.Path, len(data), len(buf))
	}
	copy(buf, data)
	return nil
}

// Store writes the record fully and durably before returning
func (f *File) Store(buf []byte) error {
	file, err := os.OpenFile(f.Path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := file.Write(buf); err != nil {
		file.Close()
		return err
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// provisionConfig is what the setup flow writes
type provisionConfig struct {
	Loc string `json:"loc"`
}

// Portal yields the data the provisioning flow owns.
// The daemon reads the location through it at the top of every sync
// cycle, so a reconfigured location takes effect without a restart.
type Portal interface {
	Location() (string, error)
}

// FilePortal reads the provisioning config from a JSON file
type FilePortal struct {
	Path string
}

// Location returns the configured "lat,lon" string. A missing or
// malformed config is not an error: the daemon runs with an empty
// location until the device is provisioned.
func (p *FilePortal) Location() (string, error) {
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	cfg := &provisionConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Warningf("malformed config %s: %v", p.Path, err)
		return "", nil
	}
	return cfg.Loc, nil
}

// SetLocation rewrites the provisioning config with a new location
func (p *FilePortal) SetLocation(loc string) error {
	data, err := json.Marshal(&provisionConfig{Loc: loc})
	if err != nil {
		return err
	}
	return os.WriteFile(p.Path, data, 0644)
}

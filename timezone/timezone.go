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

// Package timezone converts a UTC epoch into a local epoch by asking an
// external coordinate-based offset lookup service.
package timezone

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

// statusOK is the only response status that carries usable offsets
const statusOK = "OK"

// Correction is the offset lookup service JSON response
type Correction struct {
	Status    string `json:"status"`
	RawOffset int64  `json:"rawOffset"`
	DstOffset int64  `json:"dstOffset"`
}

// Resolver talks to the timezone offset lookup service
type Resolver struct {
	Client  *http.Client
	BaseURL string
}

// NewResolver creates a Resolver for the given service URL
func NewResolver(baseURL string) *Resolver {
	return &Resolver{
		Client:  &http.Client{Timeout: 10 * time.Second},
		BaseURL: baseURL,
	}
}

// Resolve returns the local epoch for a UTC epoch at the given
// "lat,lon" location. Any transport or service failure is an error and
// the caller must keep its previous notion of local time for this cycle.
func (r *Resolver) Resolve(epoch int64, location string) (int64, error) {
	u := fmt.Sprintf("%s?location=%s&timestamp=%d", r.BaseURL, url.QueryEscape(location), epoch)
	resp, err := r.Client.Get(u)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("timezone lookup: %s", http.StatusText(resp.StatusCode))
	}

	c := &Correction{}
	if err = json.NewDecoder(resp.Body).Decode(c); err != nil {
		return 0, fmt.Errorf("timezone lookup: %w", err)
	}
	if c.Status != statusOK {
		return 0, fmt.Errorf("timezone lookup status %q", c.Status)
	}
	log.Debugf("timezone offsets for %s: raw=%d dst=%d", location, c.RawOffset, c.DstOffset)
	return epoch + c.RawOffset + c.DstOffset, nil
}

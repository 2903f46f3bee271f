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

package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stepclock/stepclock/clock"
	"github.com/stepclock/stepclock/daemon"
	"github.com/stepclock/stepclock/store"
)

var (
	setTime string
	setLoc  string
)

func init() {
	RootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVarP(&cfgPath, "config", "c", "/etc/stepclock.yaml", "path to config file")
	setCmd.Flags().StringVarP(&setTime, "time", "t", "", "hand position as h:mm:ss on a 12-hour face")
	setCmd.Flags().StringVarP(&setLoc, "loc", "l", "", "clock location as \"lat,lon\"")
}

// parseClockTime turns "h:mm:ss" into a validated face position
func parseClockTime(s string) (clock.Time, error) {
	var h, m, sec int
	if n, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); n != 3 {
		return clock.Time{}, fmt.Errorf("bad time %q: %v", s, err)
	}
	return clock.FromBytes([]byte{byte(h), byte(m), byte(sec)})
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Provision the stored hand position and clock location",
	Long: `Provision the records the daemon reads at startup.
After physically aligning the hands, store their position with --time;
store the clock's coordinates with --loc so local time can be resolved.`,
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		cfg, err := daemon.ReadConfig(cfgPath)
		if err != nil {
			log.Fatalf("reading config %s: %v", cfgPath, err)
		}
		if setTime == "" && setLoc == "" {
			log.Fatal("nothing to do, pass --time and/or --loc")
		}
		if setTime != "" {
			t, err := parseClockTime(setTime)
			if err != nil {
				log.Fatal(err)
			}
			f := &store.File{Path: cfg.StateFile}
			if err := f.Store(t.Bytes()); err != nil {
				log.Fatalf("storing displayed time: %v", err)
			}
			log.Infof("stored displayed time %s", t)
		}
		if setLoc != "" {
			p := &store.FilePortal{Path: cfg.ConfigFile}
			if err := p.SetLocation(setLoc); err != nil {
				log.Fatalf("storing location: %v", err)
			}
			log.Infof("stored location %q", setLoc)
		}
	},
}

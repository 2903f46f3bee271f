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
	"context"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	unix "golang.org/x/sys/unix"

	"github.com/stepclock/stepclock/actuator"
	"github.com/stepclock/stepclock/daemon"
	"github.com/stepclock/stepclock/ntp"
	"github.com/stepclock/stepclock/store"
	"github.com/stepclock/stepclock/timezone"
)

var cfgPath string

func init() {
	RootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&cfgPath, "config", "c", "/etc/stepclock.yaml", "path to config file")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the clock synchronization daemon",
	Run: func(_ *cobra.Command, _ []string) {
		ConfigureVerbosity()

		cfg, err := daemon.ReadConfig(cfgPath)
		if err != nil {
			log.Fatalf("reading config %s: %v", cfgPath, err)
		}
		if err := cfg.EvalAndValidate(); err != nil {
			log.Fatal(err)
		}

		var driver actuator.PulseDriver
		if cfg.SerialPort != "" {
			driver, err = actuator.NewSerialDriver(cfg.SerialPort)
		} else {
			driver, err = actuator.NewGPIODriver(cfg.PinA, cfg.PinB)
		}
		if err != nil {
			log.Fatalf("setting up pulse driver: %v", err)
		}

		// without the state store there is no way to track the hands,
		// refuse to run rather than guess
		mech, err := actuator.New(driver, &store.File{Path: cfg.StateFile})
		if err != nil {
			log.Fatalf("opening state store: %v", err)
		}

		source, err := ntp.NewClient(cfg.NTPServer)
		if err != nil {
			log.Fatalf("setting up NTP client: %v", err)
		}
		defer source.Close()

		stats := daemon.NewStats()
		if cfg.MonitoringPort != 0 {
			go func() {
				if err := stats.Start(cfg.MonitoringPort); err != nil {
					log.Errorf("monitoring server: %v", err)
				}
			}()
		}

		d := daemon.New(
			cfg,
			source,
			timezone.NewResolver(cfg.TimezoneURL),
			mech,
			&store.FilePortal{Path: cfg.ConfigFile},
			stats,
		)

		ctx, cancel := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
		defer cancel()
		log.Infof("starting with displayed time %s", mech.Displayed())
		if err := d.Run(ctx); err != nil && ctx.Err() == nil {
			log.Fatal(err)
		}
	},
}

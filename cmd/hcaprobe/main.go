// SPDX-FileCopyrightText: 2024 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"os"
	"time"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/ironcore-dev/metal-hca/internal/config"
	"github.com/ironcore-dev/metal-hca/internal/probe"
)

var (
	setupLog = ctrl.Log.WithName("setup")
)

func main() {
	var (
		configFile  string
		registryURL string
		systemUUID  string
		sysfsRoot   string
		verbs       string
		catalog     string
		backoff     time.Duration
		steps       int
	)

	flag.StringVar(&configFile, "config", "", "Path to a configuration file.")
	flag.StringVar(&registryURL, "registry-url", "", "Registry URL where the probe will register the inventory.")
	flag.StringVar(&systemUUID, "system-uuid", "", "System UUID to register with the registry. Read from SMBIOS if empty.")
	flag.StringVar(&sysfsRoot, "sysfs-root", config.DefaultSysfsRoot, "Mount point of sysfs.")
	flag.StringVar(&verbs, "verbs", string(config.VerbsIBVerbs), "Verbs backend, one of ibverbs, sysfs.")
	flag.StringVar(&catalog, "catalog", string(config.CatalogUdev), "Device catalog backend, one of udev, sysfs.")
	flag.DurationVar(&backoff, "registry-backoff", config.DefaultRegistryBackoff, "Initial delay between registration attempts.")
	flag.IntVar(&steps, "registry-steps", config.DefaultRegistrySteps, "Number of registration attempts.")

	opts := zap.Options{
		Development: true,
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	cfg, err := config.Load(configFile)
	if err != nil {
		setupLog.Error(err, "unable to load configuration")
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "registry-url":
			cfg.Registry.URL = registryURL
		case "system-uuid":
			cfg.Registry.SystemUUID = systemUUID
		case "sysfs-root":
			cfg.SysfsRoot = sysfsRoot
		case "verbs":
			cfg.Verbs = config.VerbsBackend(verbs)
		case "catalog":
			cfg.Catalog = config.CatalogBackend(catalog)
		case "registry-backoff":
			cfg.Registry.Backoff = backoff
		case "registry-steps":
			cfg.Registry.Steps = steps
		}
	})
	if err := cfg.Validate(); err != nil {
		setupLog.Error(err, "invalid configuration")
		os.Exit(1)
	}

	if cfg.Registry.URL == "" {
		setupLog.Error(nil, "registry URL is missing")
		os.Exit(1)
	}

	if cfg.Registry.SystemUUID == "" {
		uuid, err := probe.SystemUUID()
		if err != nil {
			setupLog.Error(err, "system uuid is missing")
			os.Exit(1)
		}
		cfg.Registry.SystemUUID = uuid
	}

	inventory, err := cfg.NewInventory()
	if err != nil {
		setupLog.Error(err, "unable to set up inventory")
		os.Exit(1)
	}

	ctx := ctrl.SetupSignalHandler()

	setupLog.Info("starting probe agent", "uuid", cfg.Registry.SystemUUID, "verbs", cfg.Verbs, "catalog", cfg.Catalog)
	agent := probe.NewAgent(ctrl.Log.WithName("probe"), inventory, cfg.Registry.SystemUUID, cfg.Registry.URL,
		cfg.Registry.Backoff, cfg.Registry.Steps)
	if err := agent.Run(ctx); err != nil {
		setupLog.Error(err, "problem running probe agent")
		os.Exit(1)
	}
}

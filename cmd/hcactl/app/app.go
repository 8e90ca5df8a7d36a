// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"context"
	goflag "flag"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
	"github.com/ironcore-dev/metal-hca/internal/config"
)

const Name string = "hcactl"

type enumerator interface {
	Enumerate(ctx context.Context) ([]hcaapi.PhysicalCard, error)
}

// newInventory builds the inventory the commands read from.
var newInventory = func(cfg *config.Config) (enumerator, error) {
	return cfg.NewInventory()
}

// options are the flags shared by all subcommands.
type options struct {
	configFile string
	sysfsRoot  string
	verbs      string
	catalog    string
}

func NewCommand() *cobra.Command {
	o := &options{}
	zapOpts := zap.Options{Development: true}

	root := &cobra.Command{
		Use:           Name,
		Short:         "Inventory of the InfiniBand/RDMA adapters of a host",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctrl.SetLogger(zap.New(zap.UseFlagOptions(&zapOpts), zap.WriteTo(cmd.ErrOrStderr())))
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&o.configFile, "config", "", "Path to a configuration file.")
	flags.StringVar(&o.sysfsRoot, "sysfs-root", config.DefaultSysfsRoot, "Mount point of sysfs.")
	flags.StringVar(&o.verbs, "verbs", string(config.VerbsIBVerbs), "Verbs backend, one of ibverbs, sysfs.")
	flags.StringVar(&o.catalog, "catalog", string(config.CatalogUdev), "Device catalog backend, one of udev, sysfs.")

	goFlags := goflag.NewFlagSet(Name, goflag.ContinueOnError)
	zapOpts.BindFlags(goFlags)
	flags.AddGoFlagSet(goFlags)

	root.AddCommand(NewListCommand(o))
	root.AddCommand(NewRegistryCommand())
	return root
}

// config loads the configuration file and applies the flags set on the command line.
func (o *options) config(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("sysfs-root") {
		cfg.SysfsRoot = o.sysfsRoot
	}
	if cmd.Flags().Changed("verbs") {
		cfg.Verbs = config.VerbsBackend(o.verbs)
	}
	if cmd.Flags().Changed("catalog") {
		cfg.Catalog = config.CatalogBackend(o.catalog)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

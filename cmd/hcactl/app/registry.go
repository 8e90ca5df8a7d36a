// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/ironcore-dev/metal-hca/internal/registry"
)

func NewRegistryCommand() *cobra.Command {
	var bindAddress string

	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Run the registry that collects the inventories posted by hcaprobe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server, err := registry.NewServer(ctrl.Log.WithName("registry"), bindAddress, metrics.Registry)
			if err != nil {
				return err
			}
			return server.Start(cmd.Context())
		},
	}

	registryCmd.Flags().StringVar(&bindAddress, "bind-address", ":10000", "Address the registry server listens on.")
	return registryCmd
}

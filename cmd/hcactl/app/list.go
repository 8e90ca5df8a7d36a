// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/ironcore-dev/metal-hca/internal/render"
)

func NewListCommand(o *options) *cobra.Command {
	var output string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the adapter cards, devices and ports of this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(output)
			if err != nil {
				return err
			}
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			inventory, err := newInventory(cfg)
			if err != nil {
				return err
			}

			ctx := logr.NewContext(cmd.Context(), ctrl.Log.WithName("inventory"))
			cards, err := inventory.Enumerate(ctx)
			if err != nil {
				return err
			}
			return render.Cards(cmd.OutOrStdout(), format, cards)
		},
	}

	listCmd.Flags().StringVarP(&output, "output", "o", string(render.FormatTable), "Output format, one of table, json, yaml.")
	return listCmd
}

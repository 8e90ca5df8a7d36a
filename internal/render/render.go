// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/yaml"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
)

type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatTable, FormatJSON, FormatYAML}

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, 0, len(Formats))
	for _, f := range Formats {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unsupported output format %q, expected one of %s", s, strings.Join(names, ", "))
}

// Cards writes the inventory to w in the given format.
func Cards(w io.Writer, format Format, cards []hcaapi.PhysicalCard) error {
	switch format {
	case FormatTable:
		return renderTable(w, cards)
	case FormatJSON:
		data, err := json.MarshalIndent(cards, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal inventory: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		data, err := yaml.Marshal(cards)
		if err != nil {
			return fmt.Errorf("failed to marshal inventory: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unsupported output format %q", format)
}

const absent = "-"

var (
	labelStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	portHeaders = []string{"Name", "Slot", "Node GUID", "Port GUID", "Port", "LID", "Link", "State", "Phys State"}
)

func renderTable(w io.Writer, cards []hcaapi.PhysicalCard) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, "No adapters found.")
		return err
	}

	blocks := make([]string, 0, len(cards))
	for _, card := range cards {
		blocks = append(blocks, cardBlock(card))
	}
	_, err := fmt.Fprintln(w, strings.Join(blocks, "\n\n"))
	return err
}

func cardBlock(card hcaapi.PhysicalCard) string {
	header := []string{
		labelStyle.Render("ID:") + "     " + card.SubsystemID,
		labelStyle.Render("Model:") + "  " + card.ModelName,
		labelStyle.Render("Vendor:") + " " + card.VendorName + " (" + card.VendorID + ")",
		labelStyle.Render("FW:") + "     " + card.FirmwareVersion,
		labelStyle.Render("Board:") + "  " + card.BoardID,
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(portHeaders...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, device := range card.Devices {
		for _, row := range deviceRows(device) {
			t.Row(row...)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, strings.Join(header, "\n"), t.String())
}

func deviceRows(device hcaapi.LogicalDevice) [][]string {
	slot := orAbsent(device.PCISlotName)
	if len(device.Ports) == 0 {
		return [][]string{{device.Name, slot, device.NodeGUID, absent, absent, absent, absent, absent, absent}}
	}
	rows := make([][]string, 0, len(device.Ports))
	for _, port := range device.Ports {
		rows = append(rows, []string{
			device.Name,
			slot,
			device.NodeGUID,
			ptr.Deref(port.GlobalID, absent),
			strconv.Itoa(int(port.Number)),
			strconv.Itoa(int(port.LID)),
			port.LinkType.Short(),
			string(port.State),
			string(port.PhysicalState),
		})
	}
	return rows
}

func orAbsent(s string) string {
	if s == "" {
		return absent
	}
	return s
}

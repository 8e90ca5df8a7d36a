// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

// LinkType is the link layer a port runs.
type LinkType string

const (
	LinkTypeInfiniBand LinkType = "InfiniBand"
	LinkTypeEthernet   LinkType = "Ethernet"
)

// Short returns the abbreviated form used in tabular output.
func (l LinkType) Short() string {
	switch l {
	case LinkTypeInfiniBand:
		return "IB"
	case LinkTypeEthernet:
		return "Eth"
	}
	return string(l)
}

// PortState is the logical state of a port.
type PortState string

const (
	PortStateInitializing PortState = "Initializing"
	PortStateActive       PortState = "Active"
	PortStateDown         PortState = "Down"
)

// PhysState is the physical state of a port.
type PhysState string

const (
	PhysStatePolling  PhysState = "Polling"
	PhysStateLinkUp   PhysState = "LinkUp"
	PhysStateDisabled PhysState = "Disabled"
)

// PhysicalCard is an adapter card, identified by its PCI subsystem id.
// A card hosts one or more logical devices (one per PCI function).
type PhysicalCard struct {
	SubsystemID     string          `json:"subsystemID"`
	ModelName       string          `json:"modelName"`
	VendorName      string          `json:"vendorName"`
	VendorID        string          `json:"vendorID"`
	BoardID         string          `json:"boardID"`
	FirmwareVersion string          `json:"firmwareVersion"`
	Devices         []LogicalDevice `json:"devices"`
}

// LogicalDevice is a verbs device as seen by the kernel.
type LogicalDevice struct {
	Name            string `json:"name"`
	PCISlotName     string `json:"pciSlotName,omitempty"`
	NodeGUID        string `json:"nodeGUID"`
	NodeDescription string `json:"nodeDescription"`
	SystemImageGUID string `json:"systemImageGUID"`
	FirmwareVersion string `json:"firmwareVersion"`
	BoardID         string `json:"boardID"`
	Ports           []Port `json:"ports"`
}

// Port is a single port of a logical device. GlobalID is only set for
// InfiniBand ports.
type Port struct {
	Number        uint8     `json:"portNumber"`
	LID           uint16    `json:"lid"`
	LinkType      LinkType  `json:"linkType"`
	GlobalID      *string   `json:"globalID,omitempty"`
	State         PortState `json:"state"`
	PhysicalState PhysState `json:"physicalState"`
}

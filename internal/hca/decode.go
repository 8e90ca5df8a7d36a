// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

import (
	"fmt"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
)

// Raw link layer codes (IBV_LINK_LAYER_*).
const (
	LinkLayerInfiniBand uint8 = 1
	LinkLayerEthernet   uint8 = 2
)

// Raw port state codes (enum ibv_port_state).
const (
	PortStateNop         uint32 = 0
	PortStateDown        uint32 = 1
	PortStateInit        uint32 = 2
	PortStateArmed       uint32 = 3
	PortStateActive      uint32 = 4
	PortStateActiveDefer uint32 = 5
)

// Raw physical port state codes as defined by the InfiniBand architecture.
const (
	PhysStateSleep    uint8 = 1
	PhysStatePolling  uint8 = 2
	PhysStateDisabled uint8 = 3
	PhysStateTraining uint8 = 4
	PhysStateLinkUp   uint8 = 5
)

// DecodeLinkType maps a raw link layer code to a LinkType.
func DecodeLinkType(raw uint8) (hcaapi.LinkType, error) {
	switch raw {
	case LinkLayerInfiniBand:
		return hcaapi.LinkTypeInfiniBand, nil
	case LinkLayerEthernet:
		return hcaapi.LinkTypeEthernet, nil
	}
	return "", &DecodeError{Kind: "link type", Raw: uint32(raw)}
}

// DecodePortState maps a raw port state to a PortState. Only DOWN, INIT and
// ACTIVE are recognized.
func DecodePortState(raw uint32) (hcaapi.PortState, error) {
	switch raw {
	case PortStateDown:
		return hcaapi.PortStateDown, nil
	case PortStateInit:
		return hcaapi.PortStateInitializing, nil
	case PortStateActive:
		return hcaapi.PortStateActive, nil
	}
	return "", &DecodeError{Kind: "port state", Raw: raw}
}

// DecodePhysState maps a raw physical port state to a PhysState.
func DecodePhysState(raw uint8) (hcaapi.PhysState, error) {
	switch raw {
	case PhysStatePolling:
		return hcaapi.PhysStatePolling, nil
	case PhysStateDisabled:
		return hcaapi.PhysStateDisabled, nil
	case PhysStateLinkUp:
		return hcaapi.PhysStateLinkUp, nil
	}
	return "", &DecodeError{Kind: "physical state", Raw: uint32(raw)}
}

// FormatGlobalID renders the interface id half (bytes 8..16) of a GID as
// four colon separated groups, e.g. "0014:0500:abcd:ef01".
func FormatGlobalID(raw [16]byte) string {
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x:%02x%02x",
		raw[8], raw[9], raw[10], raw[11], raw[12], raw[13], raw[14], raw[15])
}

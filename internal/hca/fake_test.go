// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

import (
	"errors"
	"syscall"
)

type fakePort struct {
	attrs PortAttributes
	gid   [16]byte
	err   error
}

type fakeDevice struct {
	name    string
	attrs   DeviceAttributes
	ports   map[uint8]fakePort
	openErr error
	attrErr error
}

// fakeVerbs records every context open and close so tests can check pairing.
type fakeVerbs struct {
	devices []fakeDevice
	openErr error

	opened         int
	closed         int
	sessionsClosed int
}

func (f *fakeVerbs) Open() (Session, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	if len(f.devices) == 0 {
		return nil, &VerbsError{Kind: ErrNoDevices, Op: "get_device_list"}
	}
	return &fakeSession{verbs: f}, nil
}

type fakeSession struct {
	verbs *fakeVerbs
}

func (s *fakeSession) Devices() []string {
	names := make([]string, 0, len(s.verbs.devices))
	for _, d := range s.verbs.devices {
		names = append(names, d.name)
	}
	return names
}

func (s *fakeSession) OpenContext(name string) (DeviceContext, error) {
	for i := range s.verbs.devices {
		d := &s.verbs.devices[i]
		if d.name != name {
			continue
		}
		if d.openErr != nil {
			return nil, &VerbsError{Kind: ErrDeviceOpenFailed, Op: "open_device", Device: name, Err: d.openErr}
		}
		s.verbs.opened++
		return &fakeContext{verbs: s.verbs, device: d}, nil
	}
	return nil, &VerbsError{Kind: ErrDeviceOpenFailed, Op: "open_device", Device: name, Err: syscall.ENODEV}
}

func (s *fakeSession) Close() error {
	s.verbs.sessionsClosed++
	return nil
}

type fakeContext struct {
	verbs  *fakeVerbs
	device *fakeDevice
	closed bool
}

func (c *fakeContext) QueryDevice() (DeviceAttributes, error) {
	if c.device.attrErr != nil {
		return DeviceAttributes{}, &VerbsError{Kind: ErrQueryFailed, Op: "query_device", Device: c.device.name, Err: c.device.attrErr}
	}
	return c.device.attrs, nil
}

func (c *fakeContext) QueryPort(port uint8) (PortAttributes, error) {
	p, ok := c.device.ports[port]
	if !ok {
		return PortAttributes{}, &VerbsError{Kind: ErrQueryFailed, Op: "query_port", Device: c.device.name, Port: port, Err: syscall.EINVAL}
	}
	if p.err != nil {
		return PortAttributes{}, &VerbsError{Kind: ErrQueryFailed, Op: "query_port", Device: c.device.name, Port: port, Err: p.err}
	}
	return p.attrs, nil
}

func (c *fakeContext) QueryGID(port uint8, index int) ([16]byte, error) {
	p, ok := c.device.ports[port]
	if !ok || index != 0 {
		return [16]byte{}, &VerbsError{Kind: ErrQueryFailed, Op: "query_gid", Device: c.device.name, Port: port, Err: syscall.EINVAL}
	}
	return p.gid, nil
}

func (c *fakeContext) Close() error {
	if c.closed {
		return errors.New("context closed twice")
	}
	c.closed = true
	c.verbs.closed++
	return nil
}

// fakeRecord is an in-memory device-manager record.
type fakeRecord struct {
	name       string
	properties map[string]string
	attributes map[string]string
	parent     *fakeRecord
}

func (r *fakeRecord) SysName() string {
	return r.name
}

func (r *fakeRecord) Property(name string) (string, bool) {
	v, ok := r.properties[name]
	return v, ok
}

func (r *fakeRecord) Attribute(name string) (string, bool) {
	v, ok := r.attributes[name]
	return v, ok
}

func (r *fakeRecord) Parent() (Record, bool) {
	if r.parent == nil {
		return nil, false
	}
	return r.parent, true
}

type fakeCatalog struct {
	records []*fakeRecord
	err     error
	scanned []string
}

func (c *fakeCatalog) Records(subsystem string) ([]Record, error) {
	c.scanned = append(c.scanned, subsystem)
	if c.err != nil {
		return nil, c.err
	}
	records := make([]Record, 0, len(c.records))
	for _, r := range c.records {
		records = append(records, r)
	}
	return records, nil
}

func ibGID(tail ...byte) [16]byte {
	gid := [16]byte{0xfe, 0x80}
	copy(gid[8:], tail)
	return gid
}

func activeIBPort(lid uint16, tail ...byte) fakePort {
	return fakePort{
		attrs: PortAttributes{State: PortStateActive, PhysState: PhysStateLinkUp, LID: lid, LinkLayer: LinkLayerInfiniBand},
		gid:   ibGID(tail...),
	}
}

func downEthPort() fakePort {
	return fakePort{
		attrs: PortAttributes{State: PortStateDown, PhysState: PhysStateDisabled, LinkLayer: LinkLayerEthernet},
		gid:   [16]byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0xff, 0xff, 10, 0, 0, 1},
	}
}

func pciRecord(slot, subsys string) *fakeRecord {
	return &fakeRecord{
		name: slot,
		properties: map[string]string{
			PropertySlotName:    slot,
			PropertySubsystemID: subsys,
			PropertyModelName:   "MT28908 Family [ConnectX-6]",
			PropertyVendorName:  "Mellanox Technologies",
		},
		attributes: map[string]string{
			AttributeVendor: "0x15b3",
		},
	}
}

func ibRecord(name, fw, board string, parent *fakeRecord) *fakeRecord {
	return &fakeRecord{
		name:       name,
		properties: map[string]string{PropertyName: name},
		attributes: map[string]string{
			AttributeNodeGUID:        "0c42:a103:0065:1a2c",
			AttributeNodeDescription: "node01 " + name + "\n",
			AttributeSystemImageGUID: "0c42:a103:0065:1a2c",
			AttributeFirmwareVersion: fw,
			AttributeBoardID:         board,
		},
		parent: parent,
	}
}

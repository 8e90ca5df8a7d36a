// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

//go:build linux && cgo

package verbs

// #cgo LDFLAGS: -libverbs
// #include <stdlib.h>
// #include <infiniband/verbs.h>
//
// // ibv_query_port is a macro in rdma-core and cannot be called from Go directly.
// static int hca_query_port(struct ibv_context *ctx, uint8_t port, struct ibv_port_attr *attr) {
//     return ibv_query_port(ctx, port, attr);
// }
//
// static struct ibv_device *hca_device_at(struct ibv_device **list, int i) {
//     return list[i];
// }
import "C"

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ironcore-dev/metal-hca/internal/hca"
)

// IBVerbs queries devices through libibverbs.
type IBVerbs struct{}

// NewIBVerbs returns the libibverbs backed implementation.
func NewIBVerbs() *IBVerbs {
	return &IBVerbs{}
}

func (*IBVerbs) Open() (hca.Session, error) {
	var count C.int
	list, errno := C.ibv_get_device_list(&count)
	if list == nil {
		return nil, &hca.VerbsError{Kind: hca.ErrHardwareUnavailable, Op: "ibv_get_device_list", Err: hostError(-1, errno)}
	}
	if count == 0 {
		C.ibv_free_device_list(list)
		return nil, &hca.VerbsError{Kind: hca.ErrNoDevices, Op: "ibv_get_device_list"}
	}

	s := &ibSession{list: list, devices: make(map[string]*C.struct_ibv_device, int(count))}
	for i := 0; i < int(count); i++ {
		dev := C.hca_device_at(list, C.int(i))
		name, err := hca.ValidText("device name", C.GoString(C.ibv_get_device_name(dev)))
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.names = append(s.names, name)
		s.devices[name] = dev
	}
	return s, nil
}

// ibSession owns the device list; device pointers are only valid until Close.
type ibSession struct {
	list    **C.struct_ibv_device
	names   []string
	devices map[string]*C.struct_ibv_device
}

func (s *ibSession) Devices() []string {
	return s.names
}

func (s *ibSession) OpenContext(name string) (hca.DeviceContext, error) {
	dev, ok := s.devices[name]
	if !ok || s.list == nil {
		return nil, &hca.VerbsError{Kind: hca.ErrDeviceOpenFailed, Op: "ibv_open_device", Device: name, Err: unix.ENODEV}
	}
	ctx, errno := C.ibv_open_device(dev)
	if ctx == nil {
		return nil, &hca.VerbsError{Kind: hca.ErrDeviceOpenFailed, Op: "ibv_open_device", Device: name, Err: hostError(-1, errno)}
	}
	return &ibContext{
		name:      name,
		ibdevPath: C.GoString(&dev.ibdev_path[0]),
		ctx:       ctx,
	}, nil
}

func (s *ibSession) Close() error {
	if s.list == nil {
		return errors.New("device list already released")
	}
	C.ibv_free_device_list(s.list)
	s.list = nil
	s.devices = nil
	return nil
}

type ibContext struct {
	name      string
	ibdevPath string
	ctx       *C.struct_ibv_context
}

func (c *ibContext) QueryDevice() (hca.DeviceAttributes, error) {
	var attr C.struct_ibv_device_attr
	if rc, errno := C.ibv_query_device(c.ctx, &attr); rc != 0 {
		return hca.DeviceAttributes{}, c.queryError("ibv_query_device", 0, rc, errno)
	}

	fw, err := hca.ValidText("firmware version", C.GoString(&attr.fw_ver[0]))
	if err != nil {
		return hca.DeviceAttributes{}, err
	}
	return hca.DeviceAttributes{
		FirmwareVersion: fw,
		BoardID:         c.boardID(),
		NodeGUID:        be64ToHost(uint64(attr.node_guid)),
		SystemImageGUID: be64ToHost(uint64(attr.sys_image_guid)),
		VendorID:        uint32(attr.vendor_id),
		VendorPartID:    uint32(attr.vendor_part_id),
		HardwareVersion: uint32(attr.hw_ver),
		PortCount:       uint8(attr.phys_port_cnt),
	}, nil
}

// boardID reads the board id from the device's sysfs node; ibv_device_attr
// does not carry it. Drivers without a board id yield an empty string.
func (c *ibContext) boardID() string {
	data, err := os.ReadFile(filepath.Join(c.ibdevPath, "board_id"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (c *ibContext) QueryPort(port uint8) (hca.PortAttributes, error) {
	var attr C.struct_ibv_port_attr
	if rc, errno := C.hca_query_port(c.ctx, C.uint8_t(port), &attr); rc != 0 {
		return hca.PortAttributes{}, c.queryError("ibv_query_port", port, rc, errno)
	}
	return hca.PortAttributes{
		State:     uint32(attr.state),
		PhysState: uint8(attr.phys_state),
		LID:       uint16(attr.lid),
		LinkLayer: uint8(attr.link_layer),
	}, nil
}

func (c *ibContext) QueryGID(port uint8, index int) ([16]byte, error) {
	var gid C.union_ibv_gid
	if rc, errno := C.ibv_query_gid(c.ctx, C.uint8_t(port), C.int(index), &gid); rc != 0 {
		return [16]byte{}, c.queryError("ibv_query_gid", port, rc, errno)
	}
	return *(*[16]byte)(unsafe.Pointer(&gid)), nil
}

func (c *ibContext) Close() error {
	if c.ctx == nil {
		return fmt.Errorf("device %s already closed", c.name)
	}
	rc, errno := C.ibv_close_device(c.ctx)
	c.ctx = nil
	if rc != 0 {
		return fmt.Errorf("ibv_close_device %s: %w", c.name, hostError(rc, errno))
	}
	return nil
}

func (c *ibContext) queryError(op string, port uint8, rc C.int, errno error) error {
	return &hca.VerbsError{Kind: hca.ErrQueryFailed, Op: op, Device: c.name, Port: port, Err: hostError(rc, errno)}
}

// hostError returns the error code the host reported for a failed call.
// libibverbs either sets errno or returns it as a positive value.
func hostError(rc C.int, errno error) error {
	if errno != nil {
		return errno
	}
	if rc > 0 {
		return unix.Errno(rc)
	}
	return errors.New("unspecified host error")
}

func be64ToHost(v uint64) uint64 {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], v)
	return binary.BigEndian.Uint64(b[:])
}

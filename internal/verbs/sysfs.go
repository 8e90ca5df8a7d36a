// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package verbs

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ironcore-dev/metal-hca/internal/hca"
)

var pathClassInfiniBand = filepath.Join("class", "infiniband")

// Sysfs reads the verbs device attributes the kernel exports below
// /sys/class/infiniband. It needs neither cgo nor libibverbs.
type Sysfs struct {
	root string
}

// NewSysfs returns a Sysfs reading below the given sysfs mount point.
func NewSysfs(root string) *Sysfs {
	return &Sysfs{root: root}
}

func (s *Sysfs) Open() (hca.Session, error) {
	classDir := filepath.Join(s.root, pathClassInfiniBand)
	entries, err := os.ReadDir(classDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &hca.VerbsError{Kind: hca.ErrNoDevices, Op: "read " + classDir}
	}
	if err != nil {
		return nil, &hca.VerbsError{Kind: hca.ErrHardwareUnavailable, Op: "read " + classDir, Err: err}
	}
	if len(entries) == 0 {
		return nil, &hca.VerbsError{Kind: hca.ErrNoDevices, Op: "read " + classDir}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return &sysfsSession{classDir: classDir, names: names}, nil
}

type sysfsSession struct {
	classDir string
	names    []string
}

func (s *sysfsSession) Devices() []string {
	return s.names
}

func (s *sysfsSession) OpenContext(name string) (hca.DeviceContext, error) {
	dir := filepath.Join(s.classDir, name)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, &hca.VerbsError{Kind: hca.ErrDeviceOpenFailed, Op: "open", Device: name, Err: unix.ENODEV}
	}
	return &sysfsContext{name: name, dir: dir}, nil
}

func (s *sysfsSession) Close() error {
	return nil
}

type sysfsContext struct {
	name   string
	dir    string
	closed bool
}

func (c *sysfsContext) QueryDevice() (hca.DeviceAttributes, error) {
	fw, err := c.read(0, "fw_ver")
	if err != nil {
		return hca.DeviceAttributes{}, err
	}
	nodeGUID, err := c.readGUID("node_guid")
	if err != nil {
		return hca.DeviceAttributes{}, err
	}
	sysImageGUID, err := c.readGUID("sys_image_guid")
	if err != nil {
		return hca.DeviceAttributes{}, err
	}
	ports, err := c.portCount()
	if err != nil {
		return hca.DeviceAttributes{}, err
	}

	// optional, not every driver exports them
	board, _ := c.read(0, "board_id")
	vendor, _ := c.read(0, "device", "vendor")
	part, _ := c.read(0, "device", "device")
	hwRev, _ := c.read(0, "hw_rev")

	return hca.DeviceAttributes{
		FirmwareVersion: fw,
		BoardID:         board,
		NodeGUID:        nodeGUID,
		SystemImageGUID: sysImageGUID,
		VendorID:        parseHex32(vendor),
		VendorPartID:    parseHex32(part),
		HardwareVersion: parseHex32(hwRev),
		PortCount:       ports,
	}, nil
}

func (c *sysfsContext) portCount() (uint8, error) {
	portsDir := filepath.Join(c.dir, "ports")
	entries, err := os.ReadDir(portsDir)
	if err != nil {
		return 0, c.queryError("read "+portsDir, 0, err)
	}
	var count uint8
	for _, entry := range entries {
		if _, err := strconv.ParseUint(entry.Name(), 10, 8); err == nil {
			count++
		}
	}
	return count, nil
}

func (c *sysfsContext) QueryPort(port uint8) (hca.PortAttributes, error) {
	portDir := []string{"ports", strconv.Itoa(int(port))}

	state, err := c.readCode(port, append(portDir, "state")...)
	if err != nil {
		return hca.PortAttributes{}, err
	}
	physState, err := c.readCode(port, append(portDir, "phys_state")...)
	if err != nil {
		return hca.PortAttributes{}, err
	}
	lid, err := c.read(port, append(portDir, "lid")...)
	if err != nil {
		return hca.PortAttributes{}, err
	}
	lidValue, err := strconv.ParseUint(lid, 0, 16)
	if err != nil {
		return hca.PortAttributes{}, c.queryError("parse lid", port, err)
	}
	linkLayer, err := c.read(port, append(portDir, "link_layer")...)
	if err != nil {
		return hca.PortAttributes{}, err
	}

	return hca.PortAttributes{
		State:     uint32(state),
		PhysState: uint8(physState),
		LID:       uint16(lidValue),
		LinkLayer: linkLayerCode(linkLayer),
	}, nil
}

func (c *sysfsContext) QueryGID(port uint8, index int) ([16]byte, error) {
	value, err := c.read(port, "ports", strconv.Itoa(int(port)), "gids", strconv.Itoa(index))
	if err != nil {
		return [16]byte{}, err
	}
	ip := net.ParseIP(value)
	if ip == nil {
		return [16]byte{}, c.queryError("parse gid", port, fmt.Errorf("malformed gid %q", value))
	}
	return [16]byte(ip.To16()), nil
}

func (c *sysfsContext) Close() error {
	if c.closed {
		return fmt.Errorf("device %s already closed", c.name)
	}
	c.closed = true
	return nil
}

func (c *sysfsContext) read(port uint8, elem ...string) (string, error) {
	path := filepath.Join(append([]string{c.dir}, elem...)...)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", c.queryError("read "+path, port, err)
	}
	return hca.ValidText(path, strings.TrimSpace(string(data)))
}

// readCode parses state files of the form "4: ACTIVE".
func (c *sysfsContext) readCode(port uint8, elem ...string) (uint64, error) {
	value, err := c.read(port, elem...)
	if err != nil {
		return 0, err
	}
	code, _, _ := strings.Cut(value, ":")
	n, err := strconv.ParseUint(strings.TrimSpace(code), 10, 8)
	if err != nil {
		return 0, c.queryError("parse "+elem[len(elem)-1], port, err)
	}
	return n, nil
}

// readGUID parses GUIDs of the form "0c42:a103:0065:1a2c".
func (c *sysfsContext) readGUID(name string) (uint64, error) {
	value, err := c.read(0, name)
	if err != nil {
		return 0, err
	}
	guid, err := strconv.ParseUint(strings.ReplaceAll(value, ":", ""), 16, 64)
	if err != nil {
		return 0, c.queryError("parse "+name, 0, err)
	}
	return guid, nil
}

func (c *sysfsContext) queryError(op string, port uint8, err error) error {
	return &hca.VerbsError{Kind: hca.ErrQueryFailed, Op: op, Device: c.name, Port: port, Err: err}
}

func linkLayerCode(s string) uint8 {
	switch s {
	case "InfiniBand":
		return hca.LinkLayerInfiniBand
	case "Ethernet":
		return hca.LinkLayerEthernet
	}
	return 0
}

func parseHex32(s string) uint32 {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0
	}
	return uint32(v)
}

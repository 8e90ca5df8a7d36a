// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package verbs

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sys/unix"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
	"github.com/ironcore-dev/metal-hca/internal/hca"
)

func writeFile(path, content string) {
	Expect(os.MkdirAll(filepath.Dir(path), 0755)).To(Succeed())
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
}

type sysfsPort struct {
	state, physState, lid, linkLayer, gid string
}

func writeDevice(root, name string, ports ...sysfsPort) string {
	dir := filepath.Join(root, "class", "infiniband", name)
	writeFile(filepath.Join(dir, "fw_ver"), "20.31.1014\n")
	writeFile(filepath.Join(dir, "board_id"), "MT_0000000223\n")
	writeFile(filepath.Join(dir, "node_guid"), "0c42:a103:0065:1a2c\n")
	writeFile(filepath.Join(dir, "sys_image_guid"), "0c42:a103:0065:1a2c\n")
	writeFile(filepath.Join(dir, "hw_rev"), "0x0\n")
	writeFile(filepath.Join(dir, "device", "vendor"), "0x15b3\n")
	writeFile(filepath.Join(dir, "device", "device"), "0x101b\n")
	Expect(os.MkdirAll(filepath.Join(dir, "ports"), 0755)).To(Succeed())
	for i, p := range ports {
		portDir := filepath.Join(dir, "ports", string(rune('1'+i)))
		writeFile(filepath.Join(portDir, "state"), p.state+"\n")
		writeFile(filepath.Join(portDir, "phys_state"), p.physState+"\n")
		writeFile(filepath.Join(portDir, "lid"), p.lid+"\n")
		writeFile(filepath.Join(portDir, "link_layer"), p.linkLayer+"\n")
		writeFile(filepath.Join(portDir, "gids", "0"), p.gid+"\n")
	}
	return dir
}

var ibPort = sysfsPort{
	state:     "4: ACTIVE",
	physState: "5: LinkUp",
	lid:       "0x1a",
	linkLayer: "InfiniBand",
	gid:       "fe80:0000:0000:0000:0014:0500:abcd:ef01",
}

var ethPort = sysfsPort{
	state:     "1: DOWN",
	physState: "3: Disabled",
	lid:       "0x0",
	linkLayer: "Ethernet",
	gid:       "fe80:0000:0000:0000:0e42:a1ff:fe65:1a2c",
}

var _ = Describe("Sysfs", func() {
	var root string

	BeforeEach(func() {
		root = GinkgoT().TempDir()
	})

	It("reports ErrNoDevices without an infiniband class", func() {
		_, err := NewSysfs(root).Open()
		Expect(err).To(MatchError(hca.ErrNoDevices))
	})

	It("reports ErrNoDevices for an empty infiniband class", func() {
		Expect(os.MkdirAll(filepath.Join(root, "class", "infiniband"), 0755)).To(Succeed())
		_, err := NewSysfs(root).Open()
		Expect(err).To(MatchError(hca.ErrNoDevices))
	})

	It("lists devices in name order", func() {
		writeDevice(root, "mlx5_1", ethPort)
		writeDevice(root, "mlx5_0", ibPort)
		session, err := NewSysfs(root).Open()
		Expect(err).NotTo(HaveOccurred())
		Expect(session.Devices()).To(Equal([]string{"mlx5_0", "mlx5_1"}))
		Expect(session.Close()).To(Succeed())
	})

	It("fails to open an unknown device", func() {
		writeDevice(root, "mlx5_0", ibPort)
		session, err := NewSysfs(root).Open()
		Expect(err).NotTo(HaveOccurred())
		_, err = session.OpenContext("mlx5_9")
		Expect(err).To(MatchError(hca.ErrDeviceOpenFailed))
		Expect(errors.Is(err, unix.ENODEV)).To(BeTrue())
	})

	Describe("device context", func() {
		var ctx hca.DeviceContext

		BeforeEach(func() {
			writeDevice(root, "mlx5_0", ibPort, ethPort)
			session, err := NewSysfs(root).Open()
			Expect(err).NotTo(HaveOccurred())
			ctx, err = session.OpenContext("mlx5_0")
			Expect(err).NotTo(HaveOccurred())
		})

		It("reads device attributes", func() {
			attrs, err := ctx.QueryDevice()
			Expect(err).NotTo(HaveOccurred())
			Expect(attrs).To(Equal(hca.DeviceAttributes{
				FirmwareVersion: "20.31.1014",
				BoardID:         "MT_0000000223",
				NodeGUID:        0x0c42a10300651a2c,
				SystemImageGUID: 0x0c42a10300651a2c,
				VendorID:        0x15b3,
				VendorPartID:    0x101b,
				HardwareVersion: 0,
				PortCount:       2,
			}))
		})

		It("converts port files back to raw codes", func() {
			attrs, err := ctx.QueryPort(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(attrs).To(Equal(hca.PortAttributes{
				State:     hca.PortStateActive,
				PhysState: hca.PhysStateLinkUp,
				LID:       0x1a,
				LinkLayer: hca.LinkLayerInfiniBand,
			}))

			attrs, err = ctx.QueryPort(2)
			Expect(err).NotTo(HaveOccurred())
			Expect(attrs.State).To(Equal(hca.PortStateDown))
			Expect(attrs.PhysState).To(Equal(hca.PhysStateDisabled))
			Expect(attrs.LinkLayer).To(Equal(hca.LinkLayerEthernet))
		})

		It("reads the GID table", func() {
			gid, err := ctx.QueryGID(1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(hca.FormatGlobalID(gid)).To(Equal("0014:0500:abcd:ef01"))
			Expect(gid[0]).To(Equal(byte(0xfe)))
		})

		It("fails a query for a missing port", func() {
			_, err := ctx.QueryPort(3)
			Expect(err).To(MatchError(hca.ErrQueryFailed))
			Expect(err).To(MatchError(ContainSubstring("port 3")))
			_, err = ctx.QueryGID(3, 0)
			Expect(err).To(MatchError(hca.ErrQueryFailed))
		})

		It("fails on a malformed state file", func() {
			writeFile(filepath.Join(root, "class", "infiniband", "mlx5_0", "ports", "1", "state"), "ACTIVE\n")
			_, err := ctx.QueryPort(1)
			Expect(err).To(MatchError(hca.ErrQueryFailed))
		})

		It("maps an unknown link layer to a code the decoder rejects", func() {
			writeFile(filepath.Join(root, "class", "infiniband", "mlx5_0", "ports", "1", "link_layer"), "Omni-Path\n")
			attrs, err := ctx.QueryPort(1)
			Expect(err).NotTo(HaveOccurred())
			_, err = hca.DecodeLinkType(attrs.LinkLayer)
			Expect(err).To(MatchError(hca.ErrDecode))
		})

		It("refuses a second close", func() {
			Expect(ctx.Close()).To(Succeed())
			Expect(ctx.Close()).NotTo(Succeed())
		})
	})

	It("feeds the port enumerator", func() {
		writeDevice(root, "mlx5_0", ibPort)
		writeDevice(root, "mlx5_1", ethPort)
		ports, err := hca.NewPortEnumerator(GinkgoLogr, NewSysfs(root)).Enumerate()
		Expect(err).NotTo(HaveOccurred())
		Expect(ports["mlx5_0"]).To(HaveLen(1))
		Expect(*ports["mlx5_0"][0].GlobalID).To(Equal("0014:0500:abcd:ef01"))
		Expect(ports["mlx5_0"][0].LID).To(Equal(uint16(0x1a)))
		Expect(ports["mlx5_1"][0].LinkType).To(Equal(hcaapi.LinkTypeEthernet))
		Expect(ports["mlx5_1"][0].GlobalID).To(BeNil())
	})

	It("fails the enumeration when the firmware version is unreadable", func() {
		dir := writeDevice(root, "mlx5_0", ibPort)
		Expect(os.Remove(filepath.Join(dir, "fw_ver"))).To(Succeed())
		_, err := hca.NewPortEnumerator(GinkgoLogr, NewSysfs(root)).Enumerate()
		Expect(err).To(MatchError(hca.ErrQueryFailed))
	})
})

// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	hcaapi "github.com/ironcore-dev/metal-hca/internal/api/hca"
)

var _ = Describe("Decoder", func() {
	DescribeTable("DecodeLinkType",
		func(raw uint8, expected hcaapi.LinkType) {
			Expect(DecodeLinkType(raw)).To(Equal(expected))
		},
		Entry("InfiniBand", uint8(1), hcaapi.LinkTypeInfiniBand),
		Entry("Ethernet", uint8(2), hcaapi.LinkTypeEthernet),
	)

	DescribeTable("DecodeLinkType rejects unknown codes",
		func(raw uint8) {
			_, err := DecodeLinkType(raw)
			Expect(err).To(MatchError(ErrDecode))
			var decodeErr *DecodeError
			Expect(err).To(BeAssignableToTypeOf(decodeErr))
			Expect(err.(*DecodeError).Raw).To(Equal(uint32(raw)))
		},
		Entry("unspecified", uint8(0)),
		Entry("out of range", uint8(3)),
		Entry("max", uint8(255)),
	)

	DescribeTable("DecodePortState",
		func(raw uint32, expected hcaapi.PortState) {
			Expect(DecodePortState(raw)).To(Equal(expected))
		},
		Entry("down", PortStateDown, hcaapi.PortStateDown),
		Entry("init", PortStateInit, hcaapi.PortStateInitializing),
		Entry("active", PortStateActive, hcaapi.PortStateActive),
	)

	DescribeTable("DecodePortState rejects codes outside the recognized subset",
		func(raw uint32) {
			_, err := DecodePortState(raw)
			Expect(err).To(MatchError(ErrDecode))
			Expect(err).To(MatchError(ContainSubstring("port state")))
		},
		Entry("nop", PortStateNop),
		Entry("armed", PortStateArmed),
		Entry("active defer", PortStateActiveDefer),
		Entry("garbage", uint32(42)),
	)

	DescribeTable("DecodePhysState",
		func(raw uint8, expected hcaapi.PhysState) {
			Expect(DecodePhysState(raw)).To(Equal(expected))
		},
		Entry("polling", uint8(2), hcaapi.PhysStatePolling),
		Entry("disabled", uint8(3), hcaapi.PhysStateDisabled),
		Entry("link up", uint8(5), hcaapi.PhysStateLinkUp),
	)

	DescribeTable("DecodePhysState rejects unknown codes",
		func(raw uint8) {
			_, err := DecodePhysState(raw)
			Expect(err).To(MatchError(ErrDecode))
		},
		Entry("sleep", PhysStateSleep),
		Entry("training", PhysStateTraining),
		Entry("garbage", uint8(9)),
	)

	Describe("FormatGlobalID", func() {
		It("renders the interface id half of the GID", func() {
			raw := [16]byte{0xfe, 0x80, 0, 0, 0, 0, 0, 0, 0x00, 0x14, 0x05, 0x00, 0xab, 0xcd, 0xef, 0x01}
			Expect(FormatGlobalID(raw)).To(Equal("0014:0500:abcd:ef01"))
		})

		It("ignores the subnet prefix", func() {
			a := [16]byte{0xfe, 0x80, 1, 2, 3, 4, 5, 6, 0x0c, 0x42, 0xa1, 0x03, 0x00, 0x65, 0x1a, 0x2c}
			b := a
			b[0], b[7] = 0x00, 0xff
			Expect(FormatGlobalID(a)).To(Equal(FormatGlobalID(b)))
			Expect(FormatGlobalID(a)).To(Equal("0c42:a103:0065:1a2c"))
		})

		It("zero pads every byte", func() {
			Expect(FormatGlobalID([16]byte{})).To(Equal("0000:0000:0000:0000"))
		})
	})

	Describe("LinkType.Short", func() {
		It("abbreviates known link types", func() {
			Expect(hcaapi.LinkTypeInfiniBand.Short()).To(Equal("IB"))
			Expect(hcaapi.LinkTypeEthernet.Short()).To(Equal("Eth"))
		})
	})
})

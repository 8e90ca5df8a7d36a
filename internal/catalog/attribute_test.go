// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("sysattrValue", func() {
	It("returns the value of a listed attribute", func() {
		value, ok := sysattrValue(true, func() string { return "20.31.1014" })
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal("20.31.1014"))
	})

	It("treats an empty read as missing", func() {
		value, ok := sysattrValue(true, func() string { return "" })
		Expect(ok).To(BeFalse())
		Expect(value).To(BeEmpty())
	})

	It("does not read an unlisted attribute", func() {
		read := false
		_, ok := sysattrValue(false, func() string {
			read = true
			return "0x15b3"
		})
		Expect(ok).To(BeFalse())
		Expect(read).To(BeFalse())
	})
})

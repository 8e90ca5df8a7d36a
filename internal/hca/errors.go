// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company and IronCore contributors
// SPDX-License-Identifier: Apache-2.0

package hca

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

var (
	// ErrHardwareUnavailable is returned when the verbs device list cannot be obtained.
	ErrHardwareUnavailable = errors.New("RDMA hardware unavailable")
	// ErrNoDevices is returned when the host reports an empty verbs device list.
	ErrNoDevices = fmt.Errorf("%w: host reported no devices", ErrHardwareUnavailable)

	ErrDeviceOpenFailed  = errors.New("failed to open device")
	ErrQueryFailed       = errors.New("query failed")
	ErrDecode            = errors.New("unrecognized hardware code")
	ErrPropertyNotFound  = errors.New("property not found")
	ErrAttributeNotFound = errors.New("attribute not found")
	ErrEncoding          = errors.New("invalid text encoding")
)

// VerbsError reports a failed call across the verbs boundary. Kind is one of
// the sentinel errors above; Err is the error code reported by the host, if any.
type VerbsError struct {
	Kind   error
	Op     string
	Device string
	Port   uint8
	Err    error
}

func (e *VerbsError) Error() string {
	msg := e.Op
	if e.Device != "" {
		msg += " " + e.Device
	}
	if e.Port != 0 {
		msg += fmt.Sprintf(" port %d", e.Port)
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *VerbsError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// DecodeError reports a raw status code without a known meaning.
type DecodeError struct {
	Kind string
	Raw  uint32
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown %s %d", e.Kind, e.Raw)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// LookupError reports a required device-manager property or attribute that is missing.
type LookupError struct {
	Kind   error
	Record string
	Name   string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Record, e.Kind.Error(), e.Name)
}

func (e *LookupError) Unwrap() error {
	return e.Kind
}

// ValidText returns s if it is valid UTF-8 and an ErrEncoding error otherwise.
func ValidText(field, s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", fmt.Errorf("%s %q: %w", field, s, ErrEncoding)
	}
	return s, nil
}

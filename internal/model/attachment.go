// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the relay chat surface.
package model

import "strings"

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// Attachment is a reference to an uploaded file. StorageID is an opaque
// handle; the URL it resolves to is looked up asynchronously through the
// attachment resolver and may be transiently unavailable.
type Attachment struct {
	StorageID string `json:"storage_id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	MimeType  string `json:"mime_type"`
}

// IsImage reports whether the attachment is an image by MIME type.
func (a Attachment) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}

// FormatSize returns the attachment size as a human-readable string,
// using binary units (KB = 1024 bytes) like most chat clients.
func (a Attachment) FormatSize() string {
	const unit = 1024

	size := a.Size
	if size < 0 {
		size = 0
	}
	if size < unit {
		return formatInt64(size) + " B"
	}

	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	units := []string{"KB", "MB", "GB", "TB"}
	if exp >= len(units) {
		exp = len(units) - 1
	}

	whole := size / div
	frac := (size % div) * 10 / div
	return formatInt64(whole) + "." + formatInt64(frac) + " " + units[exp]
}

// formatInt64 formats a non-negative integer without fmt.
func formatInt64(n int64) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// SPDX-License-Identifier: MPL-2.0

// Package issue provides the CLI's user-facing errors.
//
// ActionableError pairs a failed operation with remediation hints, and the
// issue catalog holds longer Markdown explanations rendered with glamour.
package issue

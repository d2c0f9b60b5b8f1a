// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems liftoff special-cases, for
// comparisons against runtime.GOOS.
package platform

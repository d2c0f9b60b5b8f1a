// SPDX-License-Identifier: MPL-2.0

// Package respawn decides whether an interpreter invocation carries the
// runtime flags it needs and, when it does not, runs the invocation again
// with a corrected argument vector.
//
// The argument vector is read as
//
//	<runtime> [runtime flags...] <script> [script args...] [-- rest...]
//
// Reconcile only rearranges and appends tokens; the Executor starts the
// child, forwards interrupts to it and reports its exit status. A child is
// marked with EnvRespawned, a fingerprint of its arguments, so a second
// respawn of the same invocation can be refused.
package respawn

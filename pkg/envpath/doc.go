// SPDX-License-Identifier: MPL-2.0

// Package envpath computes the directories and files an invocation runs
// against: the working directory, the project configuration file and the
// local copy of the hosted tool's module.
package envpath

// SPDX-License-Identifier: MPL-2.0

// Package events defines the notifications liftoff emits while it bootstraps a
// tool: module requires, loader registration, configuration misses and
// failures, and process respawns.
//
// An Emitter is owned by one liftoff instance. Callers subscribe Listeners
// before calling Prepare or Execute; every notification is a typed value that
// implements Event, so listeners switch on the concrete type instead of on
// string names.
package events

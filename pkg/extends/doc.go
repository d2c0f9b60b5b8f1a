// SPDX-License-Identifier: MPL-2.0

// Package extends loads configuration files that inherit from other files
// through an "extends" key.
//
// A Spec names each configuration and lists where to look for it. For every
// name the Loader takes the first location that exists, decodes it through a
// loaders.Registry and follows its extends chain, merging each link with
// DefaultsDeep so that values closer to the entry file win. Missing files,
// decode failures and cycles never abort a load; they are reported as events
// and the affected name degrades to what could be read.
package extends

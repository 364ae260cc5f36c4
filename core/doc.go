// Package core implements the active-object facade pattern.
//
// This package provides the basic building blocks including the
// Passive and Active facades, the Distributor, Message/Future result
// delivery and the worker Registry that together let a single target
// object be driven safely from many goroutines.
package core

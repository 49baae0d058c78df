// Package components models the physical parts of a household microgrid:
// battery storage, the inverter, the solar array, the household load and the
// utility grid connection.
//
// Each component owns its mutable state and cumulative counters. Constructors
// validate the immutable configuration and return an error wrapping
// ErrInvalidConfig when a value is out of range. Operations never fail: they
// clamp requests to what the component can physically do and return the
// quantity actually handled.
package components

// Package charging plans en-route charging stops for an electric vehicle.
//
// The Planner folds a BatteryTracker over the pre-computed route segments of a
// driving scenario. Whenever the remaining energy drops below the target
// arrival level it estimates where on the route that happened, asks the
// Selector for the best reachable station and records a ChargingEvent that
// tops the battery back up to the target. A final check after the last
// segment adds a terminal stop near the destination when the arrival state of
// charge would still be below target.
//
// Planning is synchronous, performs no I/O and keeps no state between calls,
// so plans for several scenarios may be computed concurrently.
package charging

// Package dynamo provides the core simulation vocabulary for a rigid-body
// craft assembled from parts.
//
// The package defines the types shared by every stage of a run:
//
//   - [State]: position, velocity, orientation and angular velocity
//   - [Loads]: net force and torque produced by the force model
//   - [Body]: mass and inertia consumed by an [Integrator]
//   - [Controller]: throttle source for each step
//   - [Snapshot]: per-step telemetry handed to an [Observer]
//
// # Frames
//
// The world frame is z-up; altitude is Position.Z. Angular velocity and
// torque are body-frame quantities, matching the inertia tensor, while
// forces and linear velocity are world-frame.
//
// # Errors
//
// Assembly and stepping failures are reported with sentinel errors
// ([ErrInvalidAssembly], [ErrInvalidTimestep]) that callers match with
// errors.Is. The simulator wraps them in a [SimulationError] carrying the
// step and time at which the run aborted.
package dynamo

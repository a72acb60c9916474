// Package physics computes the loads acting on a craft in flight.
//
// [Compute] sums the contributions of
//
//   - gravity, applied at the center of mass
//   - engine thrust, with torque about the center of mass
//   - aggregate hull and wing drag, applied at the center of mass
//   - wing lift, with torque about the center of mass
//   - the ground reaction, when the craft rests on the ground
//
// Forces are returned in the world frame, torques in the body frame.
// Air density follows an exponential [Atmosphere].
//
//	env := physics.DefaultEnvironment()
//	loads := physics.Compute(state, ship, env, 1.0)
package physics

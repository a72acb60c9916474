// Package control provides throttle controllers.
//
// Controllers implement [dynamo.Controller] and return a throttle for the
// next step:
//
//   - [Constant], [Takeoff], [Ramp] and [Schedule]: open-loop time profiles
//   - [PID]: closed-loop altitude hold
//   - [Feedback]: proportional-derivative hover on altitude and climb rate
//   - [Manual]: throttle set from outside, e.g. the live view
//   - [None]: engines off
//
// # Usage
//
//	ctrl := control.NewTakeoff(5.0)
//	sim := sim.New(integ, ctrl, env)
//	// Controller.Throttle is called each timestep
//
// Every output is passed through [Clamp] before it reaches an engine.
package control

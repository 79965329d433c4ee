// Package harness runs coordinate scenarios against a transform graph.
//
// A scenario takes one input coordinate through a chain of frames and checks
// the resulting positions and velocities. Scenarios pin down the behaviour of
// finite-difference velocities that is otherwise only visible in numbers:
// reflex velocities, round trips, precision at large distances.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: gcrs_reflex
//	description: "Earth's orbital velocity appears along the orbit"
//	config: overrides.cue        # optional, relative to the scenario file
//	input:
//	  frame: ICRS
//	  ra: 10.5                   # degrees
//	  dec: -3.25                 # degrees
//	  distance: 100au            # km unless suffixed: au, pc, kpc
//	  pm_ra_cosdec: 0            # mas/yr
//	  pm_dec: 0                  # mas/yr
//	  radial_velocity: 0         # km/s
//	steps:
//	  - to: GCRS
//	    attrs: { obstime: "2017-01-01" }
//	assertions:
//	  - type: radial_velocity
//	    abs: true
//	    min: 30
//	    max: 40
//	  - type: velocity_max
//	    of: roundtrip
//	    max: 3e-5
//
// # Assertion Types
//
//   - position_roundtrip: positions survive the trip back to the input frame
//     within a relative tolerance
//   - speed: every |v| lies in [min, max]
//   - radial_velocity: every radial velocity (or its magnitude, with abs) lies
//     in [min, max]
//   - velocity_max: every Cartesian velocity component is at most max in
//     magnitude
//   - rv_spread: the peak-to-peak radial velocity over the batch is below max
//
// Assertions look at the output of the last step unless "of: roundtrip" asks
// for the coordinate transformed back into the input frame.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/gcrs_reflex.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := harness.BuildGraph(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario, g)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, e := range result.Errors {
//	        log.Println(e)
//	    }
//	}
package harness

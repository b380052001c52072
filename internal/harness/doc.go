// Package harness runs YAML story scenarios against a real engine.
//
// A scenario is a list of steps (store transitions, a driven session
// start, query changes and removals) plus assertions over the resulting
// snapshot, the visible records and the transition trace. Each run uses a
// fresh in-memory engine with a deterministic clock and a fixed session
// token, so traces are reproducible and can be compared against golden
// files with RunWithGolden.
//
// Scenario file format:
//
//	name: load_filter_remove
//	description: Load two stories, filter, remove one
//	session: scenario-session
//	query: ""
//	steps:
//	  - action: fetch_start
//	  - action: fetch_success
//	    records:
//	      - {id: "0", title: React}
//	  - action: query
//	    value: re
//	    expect:
//	      - type: visible
//	        ids: ["0"]
//	assertions:
//	  - type: status
//	    status: success
//
// Step actions: fetch_start, fetch_success, fetch_failure, remove, query
// and start (a full session start against a stubbed fetcher; set fail to
// make the fetch fail).
package harness

// Package planner turns an edited path listing into rename rules.
//
// The planner compares the listing handed to the editor with the listing the
// editor returned, pairs the two line by line and emits one Rename per changed
// line. It also checks the resulting rule set for internal consistency before
// anything touches the filesystem.
//
// Key responsibilities:
//   - Derive rename rules from two line-aligned listings
//   - Reject listings whose line counts differ
//   - Detect duplicate sources and duplicate destinations
package planner

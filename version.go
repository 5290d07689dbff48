// Package wren holds suite-wide metadata for the wren scaffolding tool.
package wren

// Version is the current wren release. Bumped on tagged releases.
const Version = "0.3.0"

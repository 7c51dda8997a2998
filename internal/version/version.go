// Package version holds the build version, set with -ldflags "-X".
package version

// Version is the released version of the teamcowboy CLI.
var Version = "0.1.0-dev"

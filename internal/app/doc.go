// Package app wires application dependencies for the CLI.
//
// It reads Config from viper, validates it, and builds the directory, the
// platform client and the high-level services, exposing them via the Wire
// struct for commands to use.
package app

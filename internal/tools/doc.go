// Package tools provides the host helpers shared by the ohostools binaries.
//
// Ownership boundary:
// - external command execution and exit-code capture
//
// - file copy primitives used while staging build inputs
package tools

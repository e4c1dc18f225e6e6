// Package internal holds values shared by the executables.
package internal

// Version is the release of the zkgroup tools.
const Version = "0.9.0"

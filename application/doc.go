/*
Package application is a library for building zkgroup issuers and wallets
on top of the core zkgroup package.

Config

This module implements a generic, encoding-agnostic configuration layer.
Currently only TOML is supported.

Encoding

Artifacts are exchanged between processes as hex strings of their
canonical serialization.

Logger

This module implements a generic logging system that can be used by any
zkgroup application/executable.
*/
package application

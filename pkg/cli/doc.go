// Package cli implements the backofficectl operator commands: login, logout,
// whoami, and tenant. Commands share the file credential storage with a
// gateway running in file storage mode, so a CLI login is visible to the
// gateway without a restart.
package cli

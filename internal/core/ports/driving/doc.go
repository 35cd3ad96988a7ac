// Package driving defines the interfaces through which the host calls
// INTO the core. These are the "driving" or "primary" ports in
// hexagonal architecture: the CLI and any embedding host depend on
// them, and core services implement them.
package driving

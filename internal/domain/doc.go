// Package domain contains the core entities and value objects of the linehost
// lifecycle core.
//
// This package is the innermost layer. It has no dependencies on infrastructure
// concerns (dialogs, databases, serial drivers, logging) and contains only the
// data model and its invariants.
//
// # Entities
//
//   - [Settings]: Main application settings produced by the configuration loader
//   - [Arguments]: Startup arguments merged into the settings
//   - [SerialPortEntry], [DatabaseEntry]: Registry entries pairing configuration with a handle
//   - [Event]: A record written to the operator-visible event log
//   - [InitFailure]: The typed reason a startup stage aborted
package domain

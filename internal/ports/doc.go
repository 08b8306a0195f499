// Package ports defines the interfaces (ports) that connect the lifecycle core
// to its external collaborators.
//
// Ports are the boundaries between the application core and the outside world.
// They define what the startup and shutdown orchestrators need without saying
// how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [ConfigLoader]: Loads the main settings
//   - [DatabaseProvider]: Provisions database connection handles
//   - [Dialog]: Presents error dialogs and blocking messages
//   - [SystemInfo]: Single-instance check and OS description
//   - [EventLog]: Operator-visible event records and their entry store
//   - [Dispatcher], [Application], [Window], [Timer]: The UI/dispatch thread
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// libraries (zerolog, gopsutil, pgx, go-sqlite, promptui, serial, etc.).
package ports

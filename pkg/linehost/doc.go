// Package linehost hosts a line station application: it brings the process
// from "not yet initialized" to "running" through an ordered, short-circuiting
// startup sequence and tears it down again within a bounded deadline.
//
// # Basic Usage
//
//	cfg := linehost.DefaultConfig()
//	cfg.SettingsPath = "/etc/linehost/settings.toml"
//
//	h, err := linehost.New(cfg, linehost.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer stop()
//
//	code, err := h.Run(ctx, os.Args[1:])
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Exit(code)
//
// Run must be called from the main goroutine: it becomes the dispatch
// goroutine that owns the main window and runs timer callbacks.
//
// # Startup
//
// Startup validates the constructed resources, refuses to start a second
// instance, loads the settings, builds the serial port and database
// registries, merges the startup arguments (FULLSCREEN, CLEARBUFFER,
// BCSDELAY=n, LINE=x, POSITION=n), resolves the image folder, builds the main
// window and finally hands over to the station. The first failing stage shows
// an error dialog and the process exits with code 1.
//
// # Shutdown
//
// Cancelling the Run context fires the cancellation signal, closes every
// database and serial port (each port bounded by Config.PortTimeout), records
// the exit and stops the dispatch loop. The whole graceful phase is bounded
// by Config.OuterTimeout. If the process is still alive GracePeriod later,
// the watchdog kills it.
//
// # Event Handling
//
// Implement [EventHandler] (or embed [BaseEventHandler]) and pass it via
// [WithEventHandler] to observe state changes, startup failures and the
// shutdown outcome.
//
// # Plugins
//
//	import "github.com/bft-labs/linehost/plugins/configwatcher"
//
//	h, err := linehost.New(cfg,
//	    configwatcher.WithConfigWatcher(configwatcher.DefaultConfig()),
//	)
//
// # Version
//
// Current version: 1.0.0
package linehost

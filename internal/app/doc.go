// Package app is the composition root for the lostfound TUI.
//
// # Overview
//
// Run loads configuration, points logging at a file, builds the API client,
// opens the local key-value store and hands everything to the ui package. The
// CLI subcommands reuse LoadConfig and NewClient so that flags, environment
// and the config file resolve the same way everywhere.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> LoadConfig()        config file, .env, env, flags
//	       ├─────> SetupFileLogging()  zerolog to log_file
//	       ├─────> NewClient()         token chain + request timeout
//	       ├─────> kv.Open()           theme and favorites storage
//	       └─────> ui.Run()            blocks until quit
//
// # Refreshing
//
// There is no background poller. The UI fetches once on start, again after
// every successful create, and whenever the user presses r. A refresh
// started while another is in flight cancels the older one.
//
// # Error Handling
//
// Fatal (returned from Run): an invalid config file, an unwritable log file,
// an unparseable API URL or a local store that cannot be opened.
//
// Everything after the UI starts is reported inside the UI and logged.
package app

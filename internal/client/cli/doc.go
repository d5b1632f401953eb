// Package cli provides the interactive LinguaCards command-line client.
//
// It wires configuration, the local store, the sync orchestrator and the
// application services behind a small REPL. Every command works offline;
// once the user logs in, changes are pushed to the sync server in the
// background and a connectivity watcher keeps the prompt's online/offline
// indicator current.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli

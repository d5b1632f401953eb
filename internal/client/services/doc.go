// Package services contains the application services the LinguaCards CLI
// drives: authentication, the card library, study sessions, bulk import and
// profile progress. Every mutation runs in one local transaction and then
// notifies the sync orchestrator, so the device stays usable offline and
// changes reach the server on the next debounced cycle.
package services

// Package cli provides the catalog command-line client.
//
// Every command builds an App from the loaded configuration: the local
// record store, the API client, the sync gateway and coordinator, and the
// catalog facade on top of them. One-shot commands (list, add, import, sync,
// ...) work against that stack and exit; run and watch keep the background
// sync schedule alive until interrupted.
package cli

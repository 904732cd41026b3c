// Package app contains the core application logic. It resolves scripts into
// configurations, validates them and invokes resolved hooks, decoupled from
// any specific entrypoint like a CLI.
package app

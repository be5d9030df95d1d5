// Package cli provides the interactive CareLink command-line client.
//
// It wires configuration, local storage, the HTTP pipeline, API services and
// an interactive REPL. Typical flow: prompt for credentials, fetch the care
// team directory, then read and send messages per provider.
//
// Key features:
//   - Login / Logout / Whoami
//   - Care team directory (with an offline cache fallback)
//   - Per-provider inbox with optimistic message sending
//   - Intake forms, billing statements, terms of service
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli

// Package commands defines the onramp CLI.
//
// Commands
//
//   - gateways   List the gateways available after filtering
//   - rates      Quote a purchase across gateways
//   - buy        Run the purchase steps of a gateway interactively
//
// # Implementation
//
// The root command loads the configuration from ONRAMP_* variables, an
// optional .env file and the persistent flags before any subcommand runs.
// Subcommands build their own session so per-command flags, such as the
// destination address of buy, become part of its immutable configuration.
package commands

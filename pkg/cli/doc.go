// Package cli provides common CLI utilities for the cwlink command.
//
// This package includes:
//   - Configuration management (contexts, like kubectl)
//   - Output formatting (JSON, YAML)
//   - Terminal frame rendering and log capture for the terminal console
//
// Configuration is stored in ~/.giztoy/<app>/config.yaml. Each context holds
// a station profile: keyer speed and tone, audio backend and devices,
// console type, monitor address and recording target.
//
// Example usage:
//
//	cfg, err := cli.LoadConfigWithPath("cwlink", "")
//	ctx, err := cfg.ResolveContext("")
//	speed := ctx.Speed
//
//	cli.Output(devices, cli.OutputOptions{Format: cli.FormatJSON})
package cli

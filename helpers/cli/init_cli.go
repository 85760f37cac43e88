//go:build !windows

package cli_helpers

// InitCli needs no setup outside of Windows.
func InitCli() {}

// Package utils holds small helpers shared across spool commands.
package utils

// Build metadata, overridden at link time by the release pipeline.
var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

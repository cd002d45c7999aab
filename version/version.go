// Package version identifies the application in logs and export metadata.
package version

const (
	// Name is the product name embedded in exported files.
	Name = "Mentis"
	// Version is the application version.
	Version = "1.0.0"
)

// Package utils holds build metadata stamped in with -ldflags -X.
package utils

import "fmt"

var (
	Version   = "dev"
	Sha       = "HEAD"
	Buildtime = "dev"
)

// VersionString renders the build metadata on one line.
func VersionString() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, Sha, Buildtime)
}

// Package buildinfo carries version data injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/vidgallery/internal/buildinfo.Version=1.0.0"
package buildinfo

import (
	"fmt"
	"io"
)

const na = "N/A"

var (
	Version = na
	Date    = na
	Commit  = na
)

func orNA(s string) string {
	if s == "" {
		return na
	}
	return s
}

// PrintBuildData writes the build version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(Version))
	fmt.Fprintf(w, "Build date: %s\n", orNA(Date))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(Commit))
}

// Package buildinfo exposes version data injected at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/repowatch/internal/buildinfo.buildVersion=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}

package version

import "fmt"

// Set at build time with -ldflags "-X shelf/version.GitTag=...".
var GitCommit string
var GitTag string

func String() string {
	tag := GitTag
	if tag == "" {
		tag = "dev"
	}
	if GitCommit == "" {
		return tag
	}
	return fmt.Sprintf("%s (%s)", tag, GitCommit)
}

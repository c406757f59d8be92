package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set through linker options, e.g. -X .../shared/version.gitCommit=abc123.
var (
	ver       = "0.1.0"
	gitCommit = ""
	buildDate = ""
)

// Version returns the product version with the commit and build date when known.
func Version() string {
	commit, date := gitCommit, buildDate
	if commit == "" || date == "" {
		c, d := vcsInfo()
		if commit == "" {
			commit = c
		}
		if date == "" {
			date = d
		}
	}

	return format(commit, date)
}

func format(commit, date string) string {
	s := fmt.Sprintf("Ledgerxfr/%s", ver)
	if commit != "" {
		if len(commit) > 12 {
			commit = commit[:12]
		}
		s += "-" + commit
	}

	s += " " + runtime.Version()
	if date != "" {
		s += ". Built at: " + date
	}

	return s
}

// vcsInfo reads the revision and commit time stamped by the go tool.
func vcsInfo() (commit, date string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}

	for _, st := range info.Settings {
		switch st.Key {
		case "vcs.revision":
			commit = st.Value
		case "vcs.time":
			date = st.Value
		}
	}

	return commit, date
}

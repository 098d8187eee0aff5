package version

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

// Set through -ldflags at release time.
var (
	Version = "0.1.0"
	Commit  = "unknown"
	Date    = "unknown"
)

// Resolve returns the version string. Outside a release tag it appends a
// git-describe suffix, or the VCS revision recorded in the binary when git is
// not usable.
func Resolve() string {
	return resolveVersion(Version, runGit, buildRevision)
}

func resolveVersion(base string, git func(...string) (string, error), revision func() string) string {
	if base == "" {
		base = "0.0.0"
	}

	if suffix, ok := gitSuffix(base, git); ok {
		if suffix == "" {
			return base
		}
		return base + "-" + suffix
	}

	if rev := revision(); rev != "" {
		return base + "+" + rev
	}
	return base
}

// gitSuffix reports ok=false when the working directory is not a usable
// repository.
func gitSuffix(base string, git func(...string) (string, error)) (string, bool) {
	if _, err := git("rev-parse", "--git-dir"); err != nil {
		return "", false
	}

	if _, err := git("describe", "--tags", "--exact-match"); err == nil {
		return "", true
	}

	desc, err := git("describe", "--tags", "--dirty", "--always")
	if err != nil {
		return "", false
	}

	return strings.TrimPrefix(desc, "v"+base+"-"), true
}

func buildRevision() string {
	if Commit != "" && Commit != "unknown" {
		return shortRevision(Commit)
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}

	var rev string
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			rev = shortRevision(setting.Value)
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if rev != "" && dirty {
		rev += ".dirty"
	}
	return rev
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func runGit(args ...string) (string, error) {
	out, err := exec.Command("git", args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// Package hostdetect identifies where an upstream source archive is hosted.
// It is used for consistent upstream identification across:
// - versioneers (which index to ask for the latest release)
// - spec hooks (canonical download URLs)
// - SBOM generation (package URLs of the upstream source)
//
// Both well-known hosts (github.com, gitlab.com, files.pythonhosted.org) and
// self-hosted instances (e.g., gitlab.gnome.org) are recognised.
package hostdetect

import (
	"net/url"
	"regexp"
	"strings"
)

// Provider represents an upstream hosting service.
type Provider string

const (
	ProviderGitHub      Provider = "github"
	ProviderGitLab      Provider = "gitlab"
	ProviderBitbucket   Provider = "bitbucket"
	ProviderPyPI        Provider = "pypi"
	ProviderNPM         Provider = "npm"
	ProviderRubyGems    Provider = "rubygems"
	ProviderSourceForge Provider = "sourceforge"
	ProviderUnknown     Provider = "unknown"
)

// Info contains information extracted from a source URL.
type Info struct {
	Provider Provider

	// Host is the hostname (e.g., "github.com", "gitlab.gnome.org").
	Host string

	// Owner is the repository owner or group (may include nested groups for
	// GitLab). Package indexes leave it empty, except npm scopes.
	Owner string

	// Repo is the repository or upstream project name.
	Repo string
}

// versionSuffixRe strips "-1.2.3" style suffixes from archive base names.
var versionSuffixRe = regexp.MustCompile(`-v?\d[^/]*$`)

// FromURL extracts provider information from an upstream source URL.
// Returns nil if the URL is empty, invalid or names no project.
//
// Supported URL forms include:
//   - https://github.com/owner/repo/archive/v1.0/repo-1.0.tar.gz
//   - https://gitlab.com/group/subgroup/repo/-/archive/v1.0/repo-v1.0.tar.gz
//   - https://files.pythonhosted.org/packages/source/p/pello/pello-0.1.tar.gz
//   - https://registry.npmjs.org/@scope/name/-/name-1.0.0.tgz
//   - https://rubygems.org/gems/rake-13.0.6.gem
//   - https://downloads.sourceforge.net/project/name/name-1.0.tar.gz
func FromURL(sourceURL string) *Info {
	if sourceURL == "" {
		return nil
	}
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return nil
	}
	host := strings.ToLower(u.Host)
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	info := &Info{Provider: DetectProvider(host), Host: host}

	switch info.Provider {
	case ProviderGitHub, ProviderBitbucket:
		if len(parts) < 2 {
			return nil
		}
		info.Owner, info.Repo = parts[0], strings.TrimSuffix(parts[1], ".git")
	case ProviderGitLab:
		// group/subgroup/repo/-/archive/...
		repoParts := parts
		for i, p := range parts {
			if p == "-" {
				repoParts = parts[:i]
				break
			}
		}
		if len(repoParts) < 2 {
			return nil
		}
		info.Owner = strings.Join(repoParts[:len(repoParts)-1], "/")
		info.Repo = strings.TrimSuffix(repoParts[len(repoParts)-1], ".git")
	case ProviderPyPI:
		// packages/source/<letter>/<name>/<archive>
		if len(parts) >= 4 && parts[0] == "packages" && parts[1] == "source" {
			info.Repo = parts[3]
		} else {
			info.Repo = projectFromArchive(parts[len(parts)-1])
		}
	case ProviderNPM:
		if len(parts) >= 2 && strings.HasPrefix(parts[0], "@") {
			info.Owner, info.Repo = parts[0], parts[1]
		} else {
			info.Repo = parts[0]
		}
	case ProviderRubyGems:
		info.Repo = projectFromArchive(parts[len(parts)-1])
	case ProviderSourceForge:
		if len(parts) >= 2 && parts[0] == "project" {
			info.Repo = parts[1]
		} else if name, _, ok := strings.Cut(host, ".sourceforge."); ok {
			info.Repo = name
		}
	default:
		info.Repo = projectFromArchive(parts[len(parts)-1])
	}

	if info.Repo == "" {
		return nil
	}
	return info
}

// DetectProvider determines the provider type from a hostname.
//
// Detection strategy:
// 1. Exact match on well-known hosts
// 2. Suffix match for service subdomains (e.g., files.pythonhosted.org)
// 3. Contains match for self-hosted forges (e.g., gitlab.gnome.org)
func DetectProvider(host string) Provider {
	host = strings.ToLower(host)
	if idx := strings.LastIndex(host, ":"); idx != -1 {
		host = host[:idx]
	}

	switch host {
	case "github.com", "codeload.github.com", "objects.githubusercontent.com":
		return ProviderGitHub
	case "gitlab.com":
		return ProviderGitLab
	case "bitbucket.org":
		return ProviderBitbucket
	case "files.pythonhosted.org", "pypi.io", "pypi.python.org", "pypi.org":
		return ProviderPyPI
	case "registry.npmjs.org", "registry.npmjs.com":
		return ProviderNPM
	case "rubygems.org":
		return ProviderRubyGems
	}

	switch {
	case strings.HasSuffix(host, ".github.com"):
		return ProviderGitHub
	case strings.HasSuffix(host, ".gitlab.com"):
		return ProviderGitLab
	case strings.HasSuffix(host, ".sourceforge.net"), strings.HasSuffix(host, ".sourceforge.io"),
		host == "sourceforge.net":
		return ProviderSourceForge
	}

	switch {
	case strings.Contains(host, "github"):
		return ProviderGitHub
	case strings.Contains(host, "gitlab"):
		return ProviderGitLab
	}
	return ProviderUnknown
}

// IsForge reports whether the provider hosts repositories rather than
// released packages.
func IsForge(p Provider) bool {
	switch p {
	case ProviderGitHub, ProviderGitLab, ProviderBitbucket:
		return true
	default:
		return false
	}
}

func projectFromArchive(base string) string {
	for _, ext := range []string{".tar.gz", ".tar.bz2", ".tar.xz", ".tar.zst", ".tgz", ".tar", ".zip", ".gem"} {
		if strings.HasSuffix(base, ext) {
			base = strings.TrimSuffix(base, ext)
			break
		}
	}
	return versionSuffixRe.ReplaceAllString(base, "")
}

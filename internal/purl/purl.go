// Package purl provides Package URL (PURL) generation for built RPM packages
// and for the upstream projects they are made from.
// See: https://github.com/package-url/purl-spec
//
// This package is used by:
// - the sbomdiff checker (CycloneDX component identifiers)
// - the licensecheck checker (SPDX external references)
package purl

import (
	"net/url"
	"sort"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/hostdetect"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
)

// Type represents the package type in a PURL
type Type string

const (
	TypeRPM       Type = "rpm"
	TypeGitHub    Type = "github"
	TypeGitLab    Type = "gitlab"
	TypeBitbucket Type = "bitbucket"
	TypePyPI      Type = "pypi"
	TypeNPM       Type = "npm"
	TypeGem       Type = "gem"
	TypeGeneric   Type = "generic"
)

// DefaultDistro is the namespace of RPM purls.
const DefaultDistro = "fedora"

// PURL represents a parsed Package URL
type PURL struct {
	Type       Type
	Namespace  string // distro, owner or scope
	Name       string
	Version    string
	Qualifiers map[string]string
	Subpath    string
}

// String formats the PURL as a standard PURL string. Qualifiers are sorted
// by key.
func (p *PURL) String() string {
	if p.Type == "" || p.Name == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("pkg:")
	sb.WriteString(string(p.Type))
	sb.WriteRune('/')

	if p.Namespace != "" {
		// GitLab nested groups keep their slashes escaped
		sb.WriteString(url.PathEscape(p.Namespace))
		sb.WriteRune('/')
	}
	sb.WriteString(url.PathEscape(p.Name))

	if p.Version != "" {
		sb.WriteRune('@')
		sb.WriteString(url.PathEscape(p.Version))
	}

	if len(p.Qualifiers) > 0 {
		keys := make([]string, 0, len(p.Qualifiers))
		for k := range p.Qualifiers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteRune('?')
		for i, k := range keys {
			if i > 0 {
				sb.WriteRune('&')
			}
			sb.WriteString(url.QueryEscape(k))
			sb.WriteRune('=')
			sb.WriteString(url.QueryEscape(p.Qualifiers[k]))
		}
	}

	if p.Subpath != "" {
		sb.WriteRune('#')
		sb.WriteString(p.Subpath)
	}
	return sb.String()
}

// FromRPM creates a PURL for a built package file such as
// pello-0.1-1.fc41.noarch.rpm. Returns nil when the file name does not
// have the name-version-release.arch shape.
func FromRPM(file, distro string) *PURL {
	nvra, ok := rpmver.ParseFilename(file)
	if !ok {
		return nil
	}
	if distro == "" {
		distro = DefaultDistro
	}
	return &PURL{
		Type:       TypeRPM,
		Namespace:  distro,
		Name:       nvra.Name,
		Version:    nvra.Version + "-" + nvra.Release,
		Qualifiers: map[string]string{"arch": nvra.Arch},
	}
}

// FromSourceURL creates a PURL for the upstream project an archive URL
// belongs to. Uses the shared hostdetect package so versioneers and SBOMs
// agree on the upstream identity.
func FromSourceURL(sourceURL, version string) *PURL {
	info := hostdetect.FromURL(sourceURL)
	if info == nil {
		return nil
	}
	p := &PURL{
		Type:      providerToType(info.Provider),
		Namespace: info.Owner,
		Name:      info.Repo,
		Version:   version,
	}
	if p.Type == TypeGeneric {
		p.Qualifiers = map[string]string{"download_url": sourceURL}
	}
	if p.Type == TypePyPI {
		// PyPI names are case-insensitive and normalised to lower case
		p.Name = strings.ToLower(strings.ReplaceAll(p.Name, "_", "-"))
	}
	return p
}

// providerToType converts a hostdetect.Provider to a purl.Type.
func providerToType(p hostdetect.Provider) Type {
	switch p {
	case hostdetect.ProviderGitHub:
		return TypeGitHub
	case hostdetect.ProviderGitLab:
		return TypeGitLab
	case hostdetect.ProviderBitbucket:
		return TypeBitbucket
	case hostdetect.ProviderPyPI:
		return TypePyPI
	case hostdetect.ProviderNPM:
		return TypeNPM
	case hostdetect.ProviderRubyGems:
		return TypeGem
	default:
		return TypeGeneric
	}
}

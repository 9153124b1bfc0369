// Package sbom provides shared utilities for the Software Bill of Materials
// documents the package checkers write. It holds the identifier logic used by
// both the CycloneDX and the SPDX writers.
package sbom

import (
	"fmt"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/hostdetect"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
)

// PackageIdentity is the unique identity of one built package file. A build
// may produce the same name for several architectures, so the identity
// carries the architecture too.
type PackageIdentity struct {
	rpmver.NVRA
}

// IdentityOf returns the identity encoded in a package file name.
func IdentityOf(file string) (PackageIdentity, bool) {
	nvra, ok := rpmver.ParseFilename(file)
	return PackageIdentity{nvra}, ok
}

// EVR returns version-release.
func (p PackageIdentity) EVR() string {
	return p.Version + "-" + p.Release
}

// GenerateBOMRef creates a unique CycloneDX BOM reference for a package.
// Format: {name}-{version}-{release}.{arch}
func GenerateBOMRef(p PackageIdentity) string {
	return p.String()
}

// GenerateSPDXID creates a unique SPDX identifier for a package.
// Format: Package-{sanitized-name}-{sanitized-evr}-{arch}
// Returns the ID without the "SPDXRef-" prefix.
func GenerateSPDXID(p PackageIdentity) string {
	return fmt.Sprintf("Package-%s-%s-%s", SanitizeSPDXID(p.Name), SanitizeSPDXID(p.EVR()), SanitizeSPDXID(p.Arch))
}

// SanitizeSPDXID converts a string to a valid SPDX identifier component.
// SPDX IDs must match the pattern [a-zA-Z0-9.-]+
// Invalid characters are replaced with hyphens.
// Empty input returns "unknown" to prevent invalid IDs.
func SanitizeSPDXID(s string) string {
	if s == "" {
		return "unknown"
	}

	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if isValidSPDXChar(r) {
			result.WriteRune(r)
		} else {
			result.WriteRune('-')
		}
	}
	return result.String()
}

func isValidSPDXChar(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') ||
		r == '.' ||
		r == '-'
}

// SPDXDocumentID is the standard SPDX document identifier.
const SPDXDocumentID = "DOCUMENT"

// FormatSPDXRef formats an SPDX element ID with the required "SPDXRef-" prefix.
func FormatSPDXRef(elementID string) string {
	return "SPDXRef-" + elementID
}

// SupplierInfo holds supplier information derived from an upstream source URL.
type SupplierInfo struct {
	Name string // owner, project or host
	URL  string
}

// ExtractSupplier derives the upstream supplier from a source URL. Forges
// name the repository owner; package indexes and plain download servers
// name the host. Returns nil if the URL is empty or invalid.
func ExtractSupplier(sourceURL string) *SupplierInfo {
	info := hostdetect.FromURL(sourceURL)
	if info == nil {
		return nil
	}
	name := info.Host
	if hostdetect.IsForge(info.Provider) && info.Owner != "" {
		name = info.Owner
	}
	return &SupplierInfo{Name: name, URL: sourceURL}
}

// MetadataComment builds a structured comment from build metadata.
// Only includes fields that have values, avoiding empty placeholders.
func MetadataComment(side, builder, srpm string) string {
	var parts []string
	if side != "" {
		parts = append(parts, fmt.Sprintf("side=%s", side))
	}
	if builder != "" {
		parts = append(parts, fmt.Sprintf("builder=%s", builder))
	}
	if srpm != "" {
		parts = append(parts, fmt.Sprintf("srpm=%s", srpm))
	}
	return strings.Join(parts, ", ")
}

// DefaultSPDXNamespace is the domain of SPDX document namespaces.
const DefaultSPDXNamespace = "https://spdx.org/spdxdocs"

// BuildSPDXNamespace constructs a unique SPDX document namespace.
// Format: {baseURL}/{name}/{uuid}
func BuildSPDXNamespace(baseURL, name, uuid string) string {
	if baseURL == "" {
		baseURL = DefaultSPDXNamespace
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(baseURL, "/"), name, uuid)
}

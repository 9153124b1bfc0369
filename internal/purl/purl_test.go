package purl

import (
	"testing"
)

func TestPURL_String(t *testing.T) {
	tests := []struct {
		name     string
		purl     PURL
		expected string
	}{
		{
			name: "RPM with arch",
			purl: PURL{
				Type:       TypeRPM,
				Namespace:  "fedora",
				Name:       "pello",
				Version:    "0.1-1.fc41",
				Qualifiers: map[string]string{"arch": "noarch"},
			},
			expected: "pkg:rpm/fedora/pello@0.1-1.fc41?arch=noarch",
		},
		{
			name: "GitLab nested groups",
			purl: PURL{
				Type:      TypeGitLab,
				Namespace: "group/subgroup",
				Name:      "repo",
				Version:   "1.0",
			},
			expected: "pkg:gitlab/group%2Fsubgroup/repo@1.0",
		},
		{
			name: "npm scope",
			purl: PURL{
				Type:      TypeNPM,
				Namespace: "@babel",
				Name:      "core",
				Version:   "7.24.0",
			},
			expected: "pkg:npm/%40babel/core@7.24.0",
		},
		{
			name: "Qualifiers sorted",
			purl: PURL{
				Type:       TypeRPM,
				Namespace:  "fedora",
				Name:       "pello",
				Version:    "0.1-1",
				Qualifiers: map[string]string{"epoch": "1", "arch": "x86_64", "distro": "fedora-41"},
			},
			expected: "pkg:rpm/fedora/pello@0.1-1?arch=x86_64&distro=fedora-41&epoch=1",
		},
		{
			name:     "Empty PURL",
			purl:     PURL{},
			expected: "",
		},
		{
			name: "Missing version",
			purl: PURL{
				Type: TypePyPI,
				Name: "pello",
			},
			expected: "pkg:pypi/pello",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.purl.String(); got != tc.expected {
				t.Errorf("String() = %q, expected %q", got, tc.expected)
			}
		})
	}
}

func TestFromRPM(t *testing.T) {
	p := FromRPM("/results/new-build/RPM/python3-pello-0.2-1.fc41.noarch.rpm", "")
	if p == nil {
		t.Fatal("FromRPM returned nil")
	}
	if got, want := p.String(), "pkg:rpm/fedora/python3-pello@0.2-1.fc41?arch=noarch"; got != want {
		t.Errorf("FromRPM = %q, expected %q", got, want)
	}

	if got := FromRPM("pello-0.2-1.el9.x86_64.rpm", "centos").Namespace; got != "centos" {
		t.Errorf("Namespace = %q, expected centos", got)
	}
	if FromRPM("pello-0.2.tar.gz", "") != nil {
		t.Error("expected nil for a non-package file")
	}
}

func TestFromSourceURL(t *testing.T) {
	tests := []struct {
		url      string
		version  string
		expected string
	}{
		{"https://github.com/fedora-python/pello/archive/v0.2/pello-0.2.tar.gz", "0.2", "pkg:github/fedora-python/pello@0.2"},
		{"https://files.pythonhosted.org/packages/source/P/Pello_Lib/Pello_Lib-0.2.tar.gz", "0.2", "pkg:pypi/pello-lib@0.2"},
		{"https://rubygems.org/gems/rake-13.0.6.gem", "13.0.6", "pkg:gem/rake@13.0.6"},
		{"https://ftp.gnu.org/gnu/hello/hello-2.12.1.tar.gz", "2.12.1", "pkg:generic/hello@2.12.1?download_url=https%3A%2F%2Fftp.gnu.org%2Fgnu%2Fhello%2Fhello-2.12.1.tar.gz"},
	}
	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			p := FromSourceURL(tc.url, tc.version)
			if p == nil {
				t.Fatal("FromSourceURL returned nil")
			}
			if got := p.String(); got != tc.expected {
				t.Errorf("FromSourceURL = %q, expected %q", got, tc.expected)
			}
		})
	}

	if FromSourceURL("pello-0.2.tar.gz", "0.2") != nil {
		t.Error("expected nil for a local file name")
	}
}

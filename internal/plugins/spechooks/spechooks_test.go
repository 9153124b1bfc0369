package spechooks

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/internal/testutil"
)

const pypiHash = "0f3b2c9d7e1a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e0f1a2b3c4d5e6f7a"

func parse(t *testing.T, text string) *specfile.Spec {
	t.Helper()
	spec, err := specfile.Parse("test.spec", []byte(text))
	if err != nil {
		t.Fatal(err)
	}
	return spec
}

func TestPathsToRPMMacros(t *testing.T) {
	spec := parse(t, strings.Join([]string{
		"Name:    pello",
		"Version: 0.2",
		"Release: 1",
		"",
		"%description",
		"Pello.",
		"",
		"%files",
		"%license LICENSE",
		"/usr/bin/pello",
		"%config(noreplace) /etc/pello.conf",
		"%dir /usr/share/pello",
		"# /usr/bin/old",
		"%{_mandir}/man1/pello.1*",
		"/opt/pello/data",
		"",
		"%files -n pello-devel",
		"/usr/include/pello.h",
	}, "\n"))

	changed, err := NewPathsToRPMMacros().Run(context.Background(), plugins.SpecHookRequest{Spec: spec})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !changed {
		t.Fatal("expected the spec to change")
	}

	files, _ := spec.Section("%files")
	want := []string{
		"%license LICENSE",
		"%{_bindir}/pello",
		"%config(noreplace) %{_sysconfdir}/pello.conf",
		"%dir %{_datadir}/pello",
		"# /usr/bin/old",
		"%{_mandir}/man1/pello.1*",
		"/opt/pello/data",
		"",
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("%%files = %q, want %q", files, want)
	}
	devel, _ := spec.Section("%files -n pello-devel")
	if !reflect.DeepEqual(devel, []string{"%{_includedir}/pello.h"}) {
		t.Errorf("devel %%files = %q", devel)
	}
}

func TestPathsToRPMMacros_NothingToDo(t *testing.T) {
	spec := parse(t, testutil.PelloSpec)
	changed, err := NewPathsToRPMMacros().Run(context.Background(), plugins.SpecHookRequest{Spec: spec})
	if err != nil || changed {
		t.Errorf("Run = %v, %v; want false, nil", changed, err)
	}
	if spec.String() != testutil.PelloSpec {
		t.Error("spec should be untouched")
	}
}

func TestPyPIURLFix(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		wantChanged bool
		wantRaw     string
	}{
		{
			name:        "hash url",
			source:      "https://files.pythonhosted.org/packages/0f/3b/" + pypiHash + "/pello-%{version}.tar.gz",
			wantChanged: true,
			wantRaw:     "https://files.pythonhosted.org/packages/source/p/pello/pello-%{version}.tar.gz",
		},
		{
			name:    "already canonical",
			source:  "https://files.pythonhosted.org/packages/source/p/pello/pello-%{version}.tar.gz",
			wantRaw: "https://files.pythonhosted.org/packages/source/p/pello/pello-%{version}.tar.gz",
		},
		{
			name:    "pypi macro",
			source:  "%{pypi_source pello}",
			wantRaw: "%{pypi_source pello}",
		},
		{
			name:    "other host",
			source:  "https://github.com/fedora-python/pello/archive/v%{version}/pello-%{version}.tar.gz",
			wantRaw: "https://github.com/fedora-python/pello/archive/v%{version}/pello-%{version}.tar.gz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := parse(t, "Name: python-pello\nVersion: 0.2\nRelease: 1\nSource0: "+tt.source+"\n")
			changed, err := NewPyPIURLFix().Run(context.Background(), plugins.SpecHookRequest{Spec: spec, Version: "0.2"})
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if got := spec.Sources()[0].Raw; got != tt.wantRaw {
				t.Errorf("Source0 = %q, want %q", got, tt.wantRaw)
			}
		})
	}
}

func TestPyPIURLFix_PythonOnly(t *testing.T) {
	h := NewPyPIURLFix()
	if !plugins.AppliesTo(h, "python") || plugins.AppliesTo(h, "") {
		t.Error("pypi-url-fix should serve python packages only")
	}
}

package core

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestBuildEnvironment(t *testing.T) {
	t.Setenv("RPM_BUILD_NCPUS", "2")
	envFile := filepath.Join(t.TempDir(), "builder.env")
	content := "# mock configuration\nMOCK_CONFIG=fedora-rawhide-x86_64\nQA_RPATHS=\"0x0001\"\n"
	if err := os.WriteFile(envFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	env, err := BuildEnvironment(envFile, BuildContext{Package: "pello", Version: "0.2", Side: SideNew, ResultsDir: "/tmp/results"})
	if err != nil {
		t.Fatalf("BuildEnvironment failed: %v", err)
	}

	for _, want := range []string{
		"RPM_BUILD_NCPUS=2",
		"MOCK_CONFIG=fedora-rawhide-x86_64",
		"QA_RPATHS=0x0001",
		"REBASE_HELPER_PACKAGE=pello",
		"REBASE_HELPER_VERSION=0.2",
		"REBASE_HELPER_SIDE=" + SideNew,
		"REBASE_HELPER_RESULTS_DIR=/tmp/results",
	} {
		if !slices.Contains(env, want) {
			t.Errorf("environment lacks %s", want)
		}
	}
	if slices.Index(env, "MOCK_CONFIG=fedora-rawhide-x86_64") > slices.Index(env, "REBASE_HELPER_PACKAGE=pello") {
		t.Error("run variables must come after the env file")
	}
}

func TestBuildEnvironment_MissingFile(t *testing.T) {
	if _, err := BuildEnvironment(filepath.Join(t.TempDir(), "missing.env"), BuildContext{}); err == nil {
		t.Error("expected an error for a missing env file")
	}
}

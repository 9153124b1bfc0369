package core

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/joho/godotenv"
)

// BuildContext describes the build a builder process runs for.
type BuildContext struct {
	Package    string
	Version    string
	Side       string
	ResultsDir string
}

// BuildEnvironment creates the environment of builder processes: the
// current environment, then the variables of the optional dotenv file,
// then the REBASE_HELPER_* variables describing the build.
func BuildEnvironment(envFile string, ctx BuildContext) ([]string, error) {
	env := os.Environ()

	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("read builder env file %s: %w", envFile, err)
		}
		for _, key := range slices.Sorted(maps.Keys(vars)) {
			env = append(env, fmt.Sprintf("%s=%s", key, vars[key]))
		}
	}

	rebaseVars := map[string]string{
		"REBASE_HELPER_PACKAGE":     ctx.Package,
		"REBASE_HELPER_VERSION":     ctx.Version,
		"REBASE_HELPER_SIDE":        ctx.Side,
		"REBASE_HELPER_RESULTS_DIR": ctx.ResultsDir,
	}
	for _, key := range slices.Sorted(maps.Keys(rebaseVars)) {
		env = append(env, fmt.Sprintf("%s=%s", key, rebaseVars[key]))
	}

	return env, nil
}

// Package cmd provides CLI utilities for rebase-helper
package cmd

import (
	"fmt"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/config"
)

// Shells lists the shells a completion script can be generated for.
var Shells = []string{"bash", "zsh", "fish"}

// completionHelp describes the completion subcommand in the scripts.
const completionHelp = "Generate shell completion script"

// Generate returns the completion script for shell.
func Generate(shell, prog string) (string, error) {
	switch shell {
	case "bash":
		return GenerateBashCompletion(prog), nil
	case "zsh":
		return GenerateZshCompletion(prog), nil
	case "fish":
		return GenerateFishCompletion(prog), nil
	}
	return "", fmt.Errorf("unsupported shell %q (supported: %s)", shell, strings.Join(Shells, ", "))
}

// takesPath reports whether the option's value is a file or directory.
func takesPath(o config.Option) bool {
	return o.Meta == "PATH" || o.Meta == "DIR"
}

func funcName(prog string) string {
	return "_" + strings.NewReplacer("-", "_", ".", "_").Replace(prog)
}

// GenerateBashCompletion generates bash completion script
func GenerateBashCompletion(prog string) string {
	var words, cases []string
	for _, o := range config.Schema {
		words = append(words, "--"+o.Name)
		if o.Short != "" {
			words = append(words, "-"+o.Short)
		}
		if o.IsFlag() {
			continue
		}
		var reply string
		switch {
		case len(o.Choices) > 0:
			reply = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(o.Choices, " "))
		case takesPath(o):
			reply = `COMPREPLY=( $(compgen -f -- "${cur}") )`
		default:
			reply = "COMPREPLY=()"
		}
		pattern := "--" + o.Name
		if o.Short != "" {
			pattern += "|-" + o.Short
		}
		cases = append(cases, fmt.Sprintf("        %s)\n            %s\n            return 0\n            ;;", pattern, reply))
	}

	return fmt.Sprintf(`# bash completion for %[1]s
%[2]s() {
    local cur prev
    COMPREPLY=()
    cur="${COMP_WORDS[COMP_CWORD]}"
    prev="${COMP_WORDS[COMP_CWORD-1]}"

    if [[ "${COMP_WORDS[1]}" == "completion" ]]; then
        COMPREPLY=( $(compgen -W "%[3]s" -- "${cur}") )
        return 0
    fi

    case "${prev}" in
%[4]s
    esac

    if [[ ${COMP_CWORD} -eq 1 && "${cur}" != -* ]]; then
        COMPREPLY=( $(compgen -W "completion" -- "${cur}") )
        return 0
    fi
    COMPREPLY=( $(compgen -W "%[5]s --help --version" -- "${cur}") )
    return 0
}

complete -F %[2]s %[1]s
`, prog, funcName(prog), strings.Join(Shells, " "), strings.Join(cases, "\n"), strings.Join(words, " "))
}

// zshEscape makes text safe inside a single-quoted _arguments spec.
func zshEscape(text string) string {
	return strings.NewReplacer(`'`, `'\''`, "[", `\[`, "]", `\]`, ":", `\:`).Replace(text)
}

// GenerateZshCompletion generates zsh completion script
func GenerateZshCompletion(prog string) string {
	var specs []string
	for _, o := range config.Schema {
		help := zshEscape(o.Help)
		action := ""
		if !o.IsFlag() {
			meta := strings.ToLower(o.Meta)
			if meta == "" {
				meta = "value"
			}
			switch {
			case len(o.Choices) > 0:
				action = fmt.Sprintf(":%s:(%s)", meta, strings.Join(o.Choices, " "))
			case takesPath(o):
				action = fmt.Sprintf(":%s:_files", meta)
			default:
				action = fmt.Sprintf(":%s: ", meta)
			}
		}
		eq := ""
		if !o.IsFlag() {
			eq = "="
		}
		if o.Short != "" {
			specs = append(specs, fmt.Sprintf("        '(-%[1]s --%[2]s)'{-%[1]s,--%[2]s%[3]s}'[%[4]s]%[5]s'", o.Short, o.Name, eq, help, action))
			continue
		}
		specs = append(specs, fmt.Sprintf("        '--%s%s[%s]%s'", o.Name, eq, help, action))
	}

	return fmt.Sprintf(`#compdef %[1]s

%[2]s() {
    if [[ $words[2] == completion ]]; then
        _arguments '2:shell:(%[3]s)'
        return
    fi

    _arguments -s \
%[4]s \
        '--help[show help]' \
        '--version[show version]' \
        '1::target version or subcommand:(completion)'
}

%[2]s "$@"
`, prog, funcName(prog), strings.Join(Shells, " "), strings.Join(specs, " \\\n"))
}

// fishEscape makes text safe inside a single-quoted fish string.
func fishEscape(text string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(text)
}

// GenerateFishCompletion generates fish completion script
func GenerateFishCompletion(prog string) string {
	lines := []string{
		fmt.Sprintf("# fish completion for %s", prog),
		fmt.Sprintf("complete -c %s -f -n '__fish_use_subcommand' -a 'completion' -d '%s'", prog, completionHelp),
		fmt.Sprintf("complete -c %s -f -n '__fish_seen_subcommand_from completion' -a '%s'", prog, strings.Join(Shells, " ")),
	}
	for _, o := range config.Schema {
		line := fmt.Sprintf("complete -c %s -l %s", prog, o.Name)
		if o.Short != "" {
			line += " -s " + o.Short
		}
		switch {
		case o.IsFlag():
		case len(o.Choices) > 0:
			line += fmt.Sprintf(" -x -a '%s'", strings.Join(o.Choices, " "))
		case takesPath(o):
			line += " -r -F"
		default:
			line += " -x"
		}
		line += fmt.Sprintf(" -d '%s'", fishEscape(o.Help))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n") + "\n"
}

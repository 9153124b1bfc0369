package specfile

import (
	"sort"
	"strings"
)

const maxExpansionDepth = 32

// builtinMacros covers the path macros most %files sections use. Values may
// refer to each other and are expanded recursively like any spec macro.
var builtinMacros = map[string]string{
	"_prefix":          "/usr",
	"_exec_prefix":     "%{_prefix}",
	"_usr":             "/usr",
	"_var":             "/var",
	"_bindir":          "%{_exec_prefix}/bin",
	"_sbindir":         "%{_exec_prefix}/sbin",
	"_libexecdir":      "%{_exec_prefix}/libexec",
	"_datarootdir":     "%{_prefix}/share",
	"_datadir":         "%{_datarootdir}",
	"_sysconfdir":      "/etc",
	"_sharedstatedir":  "/var/lib",
	"_localstatedir":   "/var",
	"_includedir":      "%{_prefix}/include",
	"_libdir":          "%{_prefix}/lib64",
	"_infodir":         "%{_datarootdir}/info",
	"_mandir":          "%{_datarootdir}/man",
	"_docdir":          "%{_datadir}/doc",
	"_licensedir":      "%{_datadir}/licenses",
	"_pkgdocdir":       "%{_docdir}/%{name}",
	"_unitdir":         "/usr/lib/systemd/system",
	"_userunitdir":     "/usr/lib/systemd/user",
	"_tmpfilesdir":     "/usr/lib/tmpfiles.d",
	"_rundir":          "/run",
	"_initddir":        "%{_sysconfdir}/rc.d/init.d",
	"python3_sitelib":  "/usr/lib/python3/site-packages",
	"python3_sitearch": "/usr/lib64/python3/site-packages",
}

// substitutionMacros are the path macros offered when turning an absolute
// path back into macro form. Aliases such as _usr or _exec_prefix are left
// out so the canonical name always wins.
var substitutionMacros = []string{
	"_bindir", "_sbindir", "_libexecdir", "_datadir", "_sysconfdir",
	"_sharedstatedir", "_localstatedir", "_includedir", "_libdir",
	"_infodir", "_mandir", "_docdir", "_licensedir", "_unitdir",
	"_userunitdir", "_tmpfilesdir", "_rundir", "_initddir", "_prefix",
	"python3_sitelib", "python3_sitearch",
}

// Macro returns the raw definition of name.
func (s *Spec) Macro(name string) (string, bool) {
	v, ok := s.macros[name]
	return v, ok
}

// Macros returns a copy of the macro table (raw definitions).
func (s *Spec) Macros() map[string]string {
	out := make(map[string]string, len(s.macros))
	for k, v := range s.macros {
		out[k] = v
	}
	return out
}

// Expand expands %{name}, %name, %{?name}, %{?name:value}, %{!?name:value}
// and %% in text. Undefined plain references are left untouched.
func (s *Spec) Expand(text string) string {
	return s.expand(text, 0)
}

func (s *Spec) expand(text string, depth int) string {
	if depth > maxExpansionDepth || !strings.Contains(text, "%") {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '%' || i+1 >= len(text) {
			b.WriteByte(c)
			continue
		}
		next := text[i+1]
		switch {
		case next == '%':
			b.WriteByte('%')
			i++
		case next == '{':
			end := matchingBrace(text, i+1)
			if end < 0 {
				b.WriteString(text[i:])
				return b.String()
			}
			b.WriteString(s.expandBraced(text[i+2:end], text[i:end+1], depth))
			i = end
		case isIdentStart(next):
			j := i + 1
			for j < len(text) && isIdentChar(text[j]) {
				j++
			}
			name := text[i+1 : j]
			if v, ok := s.macros[name]; ok {
				b.WriteString(s.expand(v, depth+1))
			} else {
				b.WriteString(text[i:j])
			}
			i = j - 1
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (s *Spec) expandBraced(inner, original string, depth int) string {
	negate := false
	conditional := false
	if strings.HasPrefix(inner, "!?") {
		negate, conditional = true, true
		inner = inner[2:]
	} else if strings.HasPrefix(inner, "?") {
		conditional = true
		inner = inner[1:]
	}

	name, alt, hasAlt := strings.Cut(inner, ":")
	value, defined := s.macros[name]

	if !conditional {
		if !defined {
			return original
		}
		return s.expand(value, depth+1)
	}
	switch {
	case negate && hasAlt:
		if defined {
			return ""
		}
		return s.expand(alt, depth+1)
	case negate:
		return ""
	case hasAlt:
		if defined {
			return s.expand(alt, depth+1)
		}
		return ""
	case defined:
		return s.expand(value, depth+1)
	default:
		return ""
	}
}

// PathMacros returns substitution candidates as name -> expanded value,
// including spec-level %global definitions that expand to absolute paths.
func (s *Spec) PathMacros() map[string]string {
	out := make(map[string]string)
	for _, name := range substitutionMacros {
		if v, ok := s.macros[name]; ok {
			out[name] = s.Expand(v)
		}
	}
	for name, raw := range s.macros {
		if _, builtin := builtinMacros[name]; builtin {
			continue
		}
		if v := s.Expand(raw); strings.HasPrefix(v, "/") && !strings.Contains(v, "%") {
			out[name] = v
		}
	}
	return out
}

// SubstitutePathMacros replaces the longest matching absolute path prefix of
// p with its macro. Ties on length are broken by macro name.
func (s *Spec) SubstitutePathMacros(p string) string {
	macros := s.PathMacros()
	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := len(macros[names[i]]), len(macros[names[j]])
		if li != lj {
			return li > lj
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		value := strings.TrimSuffix(macros[name], "/")
		if value == "" {
			continue
		}
		if p == value || strings.HasPrefix(p, value+"/") {
			return "%{" + name + "}" + p[len(value):]
		}
	}
	return p
}

func matchingBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// parser.go
package spec

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/robinvandernoord/uvx/pkg/core"
)

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?`)
	extraPattern   = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	clausePattern  = regexp.MustCompile(`^(===|==|!=|~=|<=|>=|<|>)\s*([A-Za-z0-9.*+!_-]+)$`)
	urlCharPattern = regexp.MustCompile(`^\S+$`)
)

// Parse strictly parses a requirement of the form
//
//	name[extra,...] <constraint>[; marker]
//	name[extra,...] @ url[ ; marker]
//
// Environment markers are accepted and dropped.
func Parse(raw string) (InstallSpec, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return InstallSpec{}, fmt.Errorf("empty requirement")
	}

	name := namePattern.FindString(s)
	if name == "" {
		return InstallSpec{}, fmt.Errorf("invalid requirement %q: expected package name", raw)
	}
	rest := strings.TrimSpace(s[len(name):])

	extras := core.NewSet()
	if strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			return InstallSpec{}, fmt.Errorf("invalid requirement %q: unterminated extras", raw)
		}
		for _, e := range strings.Split(rest[1:end], ",") {
			e = strings.TrimSpace(e)
			if e == "" {
				continue
			}
			if !extraPattern.MatchString(e) {
				return InstallSpec{}, fmt.Errorf("invalid requirement %q: bad extra %q", raw, e)
			}
			extras[e] = struct{}{}
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	out := InstallSpec{
		Name:   name,
		Extras: extras,
		Source: DefaultSource,
		Raw:    s,
	}

	if strings.HasPrefix(rest, "@") {
		url := strings.TrimSpace(rest[1:])
		if i := strings.Index(url, " ;"); i >= 0 {
			url = strings.TrimSpace(url[:i])
		}
		if url == "" || !urlCharPattern.MatchString(url) {
			return InstallSpec{}, fmt.Errorf("invalid requirement %q: bad url", raw)
		}
		out.Source = url
		return out, nil
	}

	if i := strings.Index(rest, ";"); i >= 0 {
		rest = strings.TrimSpace(rest[:i])
	}

	constraint, err := parseConstraint(rest)
	if err != nil {
		return InstallSpec{}, fmt.Errorf("invalid requirement %q: %w", raw, err)
	}
	out.VersionConstraint = constraint
	return out, nil
}

// parseConstraint normalizes "(>=1.0, <2)" to "<2,>=1.0": clauses stripped of
// whitespace and sorted, the way a specifier set stringifies.
func parseConstraint(s string) (string, error) {
	if strings.HasPrefix(s, "(") {
		if !strings.HasSuffix(s, ")") {
			return "", fmt.Errorf("unbalanced parenthesis")
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		return "", nil
	}

	var clauses []string
	for _, c := range strings.Split(s, ",") {
		c = strings.TrimSpace(c)
		m := clausePattern.FindStringSubmatch(c)
		if m == nil {
			return "", fmt.Errorf("bad version clause %q", c)
		}
		clauses = append(clauses, m[1]+m[2])
	}
	sort.Strings(clauses)
	return strings.Join(clauses, ","), nil
}

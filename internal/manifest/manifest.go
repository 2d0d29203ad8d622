// Package manifest parses Python requirements files. The parser covers the
// common line format (name, extras, version constraints, environment
// marker) and deliberately skips installer option lines rather than
// failing on them.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/hardikramesh/botforge/internal/core/domain"
)

var (
	namePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	normRuns    = regexp.MustCompile(`[-_.]+`)
)

// constraint operators, longest first so "===" wins over "==" and
// "==" over "=".
var constraintOps = []string{"===", "==", "~=", "!=", ">=", "<=", ">", "<"}

// NormalizeName folds a distribution name the way package indexes do:
// lowercase, with runs of "-", "_" and "." collapsed to a single "-".
func NormalizeName(name string) string {
	return strings.ToLower(normRuns.ReplaceAllString(name, "-"))
}

// ParseFile reads and parses the requirements file at path.
func ParseFile(path string) (*domain.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse parses requirements from r, one requirement per logical line.
// A line ending in "\" continues on the next physical line.
func Parse(r io.Reader) (*domain.Manifest, error) {
	m := &domain.Manifest{}
	scanner := bufio.NewScanner(r)

	lineNo := 0
	var pending string
	pendingStart := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if pending == "" {
			pendingStart = lineNo
		}
		if trimmed := strings.TrimRight(line, " \t"); strings.HasSuffix(trimmed, `\`) {
			pending += strings.TrimSuffix(trimmed, `\`)
			continue
		}
		logical := pending + line
		pending = ""

		if err := parseLine(m, logical, pendingStart); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	if pending != "" {
		if err := parseLine(m, pending, pendingStart); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func parseLine(m *domain.Manifest, line string, lineNo int) error {
	original := strings.TrimSpace(line)

	// Strip comments. "#" starts a trailing comment when preceded by
	// whitespace, or a full-line comment at position zero.
	if idx := commentIndex(line); idx >= 0 {
		line = line[:idx]
	}
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		if original != "" {
			m.Skipped = append(m.Skipped, original)
		}
		return nil
	}

	// Installer options ("-r other.txt", "--index-url ...") and direct
	// references (URLs, local paths) are out of scope for dependency
	// classification. Record and move on.
	if strings.HasPrefix(trimmed, "-") || strings.Contains(trimmed, "://") || strings.HasPrefix(trimmed, ".") || strings.HasPrefix(trimmed, "/") {
		m.Skipped = append(m.Skipped, trimmed)
		return nil
	}

	req, err := parseRequirement(trimmed)
	if err != nil {
		return fmt.Errorf("line %d: %w", lineNo, err)
	}
	m.Requirements = append(m.Requirements, req)
	return nil
}

func commentIndex(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != '#' {
			continue
		}
		if i == 0 || line[i-1] == ' ' || line[i-1] == '\t' {
			return i
		}
	}
	return -1
}

func parseRequirement(line string) (domain.Requirement, error) {
	req := domain.Requirement{Raw: line}

	rest := line
	if i := strings.Index(rest, ";"); i >= 0 {
		req.Marker = strings.TrimSpace(rest[i+1:])
		rest = strings.TrimSpace(rest[:i])
	}

	// Split name[extras] from the constraint list.
	nameEnd := len(rest)
	for i := 0; i < len(rest); i++ {
		if strings.ContainsRune("=<>!~", rune(rest[i])) || rest[i] == ' ' || rest[i] == '\t' {
			nameEnd = i
			break
		}
	}
	namePart := strings.TrimSpace(rest[:nameEnd])
	spec := strings.TrimSpace(rest[nameEnd:])

	if i := strings.Index(namePart, "["); i >= 0 {
		if !strings.HasSuffix(namePart, "]") {
			return req, fmt.Errorf("unterminated extras in %q", line)
		}
		for _, e := range strings.Split(namePart[i+1:len(namePart)-1], ",") {
			if e = strings.TrimSpace(e); e != "" {
				req.Extras = append(req.Extras, NormalizeName(e))
			}
		}
		namePart = namePart[:i]
	}

	if !namePattern.MatchString(namePart) {
		return req, fmt.Errorf("invalid requirement name %q", namePart)
	}
	req.Name = NormalizeName(namePart)

	if spec != "" {
		constraints, err := parseConstraints(spec)
		if err != nil {
			return req, fmt.Errorf("invalid version spec in %q: %w", line, err)
		}
		req.Constraints = constraints
	}
	return req, nil
}

func parseConstraints(spec string) ([]domain.Constraint, error) {
	var out []domain.Constraint
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("empty constraint")
		}
		var op string
		for _, candidate := range constraintOps {
			if strings.HasPrefix(part, candidate) {
				op = candidate
				break
			}
		}
		if op == "" {
			return nil, fmt.Errorf("missing operator in %q", part)
		}
		version := strings.TrimSpace(strings.TrimPrefix(part, op))
		if version == "" {
			return nil, fmt.Errorf("missing version in %q", part)
		}
		out = append(out, domain.Constraint{Op: op, Version: version})
	}
	return out, nil
}

package formula

import (
	"fmt"
	"regexp"
	"strings"
)

// RenderSource returns the body of the named function, without its
// declaration line and closing "end", rewritten as a JavaScript-flavoured
// expression the web front-end can display and evaluate.
func (m *Module) RenderSource(name string) (string, error) {
	body, err := m.Source(name)
	if err != nil {
		return "", err
	}
	return renderLua(body), nil
}

// Source returns the raw Lua body of the named function.
func (m *Module) Source(name string) (string, error) {
	sp, ok := m.funcs[name]
	if !ok {
		return "", &Error{Module: m.path, Function: name, Err: fmt.Errorf("function not defined")}
	}
	if sp.first < 1 || sp.last > len(m.lines) || sp.first > sp.last {
		return "", &Error{Module: m.path, Function: name, Err: fmt.Errorf("bad source span %d-%d", sp.first, sp.last)}
	}

	if sp.first == sp.last {
		return oneLineBody(m.lines[sp.first-1]), nil
	}
	return strings.Join(m.lines[sp.first:sp.last-1], "\n"), nil
}

var oneLineRe = regexp.MustCompile(`function[^(]*\([^)]*\)(.*)\bend\b`)

func oneLineBody(line string) string {
	if m := oneLineRe.FindStringSubmatch(line); m != nil {
		return m[1]
	}
	return ""
}

var (
	startIfRe    = regexp.MustCompile(`^if\s+`)
	startWhileRe = regexp.MustCompile(`^while\s+`)
	returnRe     = regexp.MustCompile(`^return\b`)

	// "else" must run before "elseif", whose output contains "else".
	wordRules = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`\belse\b`), "} else {"},
		{regexp.MustCompile(`\belseif\s+`), "} else if ("},
		{regexp.MustCompile(`\s*\bthen\b`), ") {"},
		{regexp.MustCompile(`\s*\bdo\b`), ") {"},
		{regexp.MustCompile(`\bend\b`), "}"},
		{regexp.MustCompile(`\blocal\s+`), "var "},
		{regexp.MustCompile(`\band\b`), "&&"},
		{regexp.MustCompile(`\bor\b`), "||"},
		{regexp.MustCompile(`\bnot\s+`), "!"},
		{regexp.MustCompile(`\bnil\b`), "null"},
		{regexp.MustCompile(`~=`), "!="},
		{regexp.MustCompile(`\s*\.\.\s*`), " + "},
	}
)

// renderLua rewrites Lua statements line by line. String literals are kept
// verbatim and comments are dropped; blank lines are removed.
func renderLua(body string) string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(renderLine(line))
		if line == "" {
			continue
		}
		line = startIfRe.ReplaceAllString(line, "if (")
		line = startWhileRe.ReplaceAllString(line, "while (")
		if returnRe.MatchString(line) && !strings.HasSuffix(line, ";") {
			line += ";"
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// renderLine applies the keyword rules to the code parts of one line.
func renderLine(line string) string {
	var b strings.Builder
	for _, seg := range splitLiterals(line) {
		if seg.literal {
			b.WriteString(seg.text)
			continue
		}
		text := seg.text
		for _, rule := range wordRules {
			text = rule.re.ReplaceAllString(text, rule.repl)
		}
		b.WriteString(text)
	}
	return b.String()
}

type segment struct {
	text    string
	literal bool
}

// splitLiterals cuts a line into code and quoted string parts and drops a
// trailing "--" comment.
func splitLiterals(line string) []segment {
	var segs []segment
	start := 0
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '-' && i+1 < len(line) && line[i+1] == '-' {
			segs = append(segs, segment{text: line[start:i]})
			return segs
		}
		if c != '"' && c != '\'' {
			continue
		}
		if i > start {
			segs = append(segs, segment{text: line[start:i]})
		}
		j := i + 1
		for j < len(line) && line[j] != c {
			if line[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(line) {
			j = len(line) - 1
		}
		segs = append(segs, segment{text: line[i : j+1], literal: true})
		i = j
		start = j + 1
	}
	if start < len(line) {
		segs = append(segs, segment{text: line[start:]})
	}
	return segs
}

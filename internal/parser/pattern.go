package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// builtinPatterns provides the named patterns usable in value templates.
var builtinPatterns = map[string]string{
	"SECONDS":    `\d+\.?\d*`,
	"INT":        `[+-]?\d+`,
	"NUMBER":     `[+-]?(?:\d+\.?\d*|\.\d+)`,
	"WORD":       `\w+`,
	"NOTSPACE":   `\S+`,
	"DATA":       `.*?`,
	"GREEDYDATA": `.*`,
	"JSONOBJECT": `\{.*\}`,
}

var templateRe = regexp.MustCompile(`%\{(\w+)(?::(\w+))?\}`)

// Pattern extracts named fields from value strings using grok-style templates.
// Template format: %{PATTERN_NAME:field_name}
// Example: "완료시간:%{SECONDS:seconds}초"
type Pattern struct {
	template   string
	regex      *regexp.Regexp
	fieldNames []string
}

// CompilePattern compiles a template into a regex-backed Pattern.
func CompilePattern(template string) (*Pattern, error) {
	regexStr, fieldNames, err := compileTemplate(template)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(regexStr)
	if err != nil {
		return nil, fmt.Errorf("compiled pattern regex invalid: %w (regex: %s)", err, regexStr)
	}

	return &Pattern{
		template:   template,
		regex:      re,
		fieldNames: fieldNames,
	}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
// Intended for package-level templates.
func MustCompilePattern(template string) *Pattern {
	p, err := CompilePattern(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Extract returns the named fields of the first match in s.
// Returns false if the pattern does not match.
func (p *Pattern) Extract(s string) (map[string]string, bool) {
	matches := p.regex.FindStringSubmatch(s)
	if matches == nil {
		return nil, false
	}

	fields := make(map[string]string, len(p.fieldNames))
	for i, name := range p.fieldNames {
		if i+1 < len(matches) && name != "" {
			fields[name] = matches[i+1]
		}
	}
	return fields, true
}

// Template returns the original template string.
func (p *Pattern) Template() string {
	return p.template
}

// compileTemplate converts a template to a Go regex.
// %{NAME:field} → (regex_for_NAME)
// %{NAME} → (?:regex_for_NAME)
func compileTemplate(template string) (string, []string, error) {
	var fieldNames []string
	result := template

	for _, m := range templateRe.FindAllStringSubmatch(template, -1) {
		fullMatch, patternName, fieldName := m[0], m[1], m[2]

		builtin, ok := builtinPatterns[patternName]
		if !ok {
			return "", nil, fmt.Errorf("unknown pattern: %s", patternName)
		}

		var replacement string
		if fieldName != "" {
			replacement = "(" + builtin + ")"
			fieldNames = append(fieldNames, fieldName)
		} else {
			replacement = "(?:" + builtin + ")"
		}

		result = strings.Replace(result, fullMatch, replacement, 1)
	}

	return result, fieldNames, nil
}

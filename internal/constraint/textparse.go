package constraint

import (
	"os"
	"strings"
)

// expressionKeywords are scanned in order; the expression is the text after
// the first keyword found on the line.
var expressionKeywords = []string{
	"precondition", "postcondition", "invariant", "pre ", "post ",
}

// ParseText performs a best-effort line-oriented scan of raw specification
// text. It never fails: malformed or unexpected input yields partial or
// empty results. Known limitations:
//
//   - no nested-block awareness
//   - single-line expressions only
//   - no line/column error reporting
//
// Callers that require correctness must use LoadNormalized.
func ParseText(content string) *DomainConstraints {
	lines := strings.Split(content, "\n")

	// First domain declaration wins; sentinel otherwise.
	domain := "Unknown"
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "domain ") {
			if fields := strings.Fields(line); len(fields) > 1 {
				domain = fields[1]
			}
			break
		}
	}

	behaviors := []BehaviorConstraint{}
	globalInvariants := []string{}

	// A behavior is flushed when the next behavior starts or input ends,
	// not when its closing brace is seen.
	inBehavior := false
	var current *BehaviorConstraint

	for _, line := range lines {
		line = strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "behavior "):
			if current != nil {
				behaviors = append(behaviors, *current)
			}
			name := ""
			if fields := strings.Fields(line); len(fields) > 1 {
				name = fields[1]
			}
			current = &BehaviorConstraint{
				Name:           name,
				Preconditions:  []string{},
				Postconditions: []string{},
				Invariants:     []string{},
			}
			inBehavior = true

		case inBehavior && current != nil:
			if strings.Contains(line, "precondition") || strings.Contains(line, "pre ") {
				if expr := extractExpression(line); expr != "" {
					current.Preconditions = append(current.Preconditions, expr)
				}
			} else if strings.Contains(line, "postcondition") || strings.Contains(line, "post ") {
				if expr := extractExpression(line); expr != "" {
					current.Postconditions = append(current.Postconditions, expr)
				}
			} else if strings.Contains(line, "invariant") {
				if expr := extractExpression(line); expr != "" {
					current.Invariants = append(current.Invariants, expr)
				}
			}
			if line == "}" {
				inBehavior = false
			}

		case strings.HasPrefix(line, "invariant "):
			if expr := extractExpression(line); expr != "" {
				globalInvariants = append(globalInvariants, expr)
			}
		}
	}

	if current != nil {
		behaviors = append(behaviors, *current)
	}

	return &DomainConstraints{
		Domain:           domain,
		Behaviors:        behaviors,
		GlobalInvariants: globalInvariants,
	}
}

// ParseTextFile reads a file and parses it with ParseText.
// Read failures still surface as IO_FAILURE; only parse problems degrade
// silently.
func ParseTextFile(path string) (*DomainConstraints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewIOError("failed to read specification file", err)
	}
	return ParseText(string(data)), nil
}

// extractExpression returns the trimmed text after the first matching
// keyword on the line, or "" if there is none, it is empty, or it looks
// like the start of a nested block.
func extractExpression(line string) string {
	for _, keyword := range expressionKeywords {
		if pos := strings.Index(line, keyword); pos >= 0 {
			expr := strings.TrimSpace(line[pos+len(keyword):])
			if expr != "" && !strings.HasPrefix(expr, "{") {
				return expr
			}
		}
	}
	return ""
}

package discover

import (
	"fmt"
	"regexp"
	"strings"
)

// patterns is a compiled set of exclude globs.
type patterns []*regexp.Regexp

func (p patterns) matchAny(path string) bool {
	for _, re := range p {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

func compileAll(globs []string) (patterns, error) {
	compiled := make(patterns, 0, len(globs))

	for _, glob := range globs {
		re, err := compile(strings.TrimPrefix(glob, "./"))
		if err != nil {
			return nil, err
		}

		compiled = append(compiled, re)
	}

	return compiled, nil
}

// compile translates a glob with find -path semantics into a regexp.
// Wildcards cross directory separators, [!x] negates a class and \ escapes.
func compile(glob string) (*regexp.Regexp, error) {
	var expr strings.Builder

	expr.WriteByte('^')

	for i := 0; i < len(glob); i++ {
		switch c := glob[i]; c {
		case '*':
			expr.WriteString(".*")
		case '?':
			expr.WriteByte('.')
		case '\\':
			if i+1 == len(glob) {
				return nil, fmt.Errorf("pattern %q: trailing backslash", glob)
			}

			i++
			expr.WriteString(regexp.QuoteMeta(glob[i : i+1]))
		case '[':
			end := classEnd(glob, i)
			if end < 0 {
				return nil, fmt.Errorf("pattern %q: unclosed character class", glob)
			}

			class := glob[i+1 : end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}

			expr.WriteString("[" + class + "]")

			i = end
		default:
			expr.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	expr.WriteByte('$')

	re, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", glob, err)
	}

	return re, nil
}

// classEnd returns the index of the bracket closing the class opened at start, or -1.
// A ] directly after [ or [! is a literal member.
func classEnd(glob string, start int) int {
	i := start + 1
	if i < len(glob) && glob[i] == '!' {
		i++
	}

	if i < len(glob) && glob[i] == ']' {
		i++
	}

	if j := strings.IndexByte(glob[i:], ']'); j >= 0 {
		return i + j
	}

	return -1
}

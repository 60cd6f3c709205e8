package theme

import (
	"errors"
	"fmt"
	"strings"

	selcss "github.com/ericchiang/css"
	"github.com/tdewolff/parse/v2"
	tcss "github.com/tdewolff/parse/v2/css"

	"themepainter/model"
)

// Issue is one problem found by Lint.
type Issue struct {
	ColorID string
	Field   string
	Index   int
	Err     error
}

func (i Issue) String() string {
	if i.Field == "" {
		return fmt.Sprintf("%s: %v", i.ColorID, i.Err)
	}
	return fmt.Sprintf("%s: %s[%d]: %v", i.ColorID, i.Field, i.Index, i.Err)
}

var (
	errBadSelector  = errors.New("selector does not parse")
	errBadAttribute = errors.New("attribute is not a property name")
	errBadQuery     = errors.New("query does not start with an at-rule")
	errBadOutput    = errors.New("compiled rules do not parse")
)

// Lint checks every color of tree the way an author would want before
// shipping a theme. It never changes how styles compile.
func Lint(tree *model.ConfigTree) []Issue {
	var issues []Issue
	for _, def := range Flatten(tree).All() {
		issues = append(issues, lintColor(def)...)
	}
	return issues
}

func lintColor(def model.ColorDefinition) []Issue {
	var issues []Issue
	add := func(field string, idx int, err error) {
		issues = append(issues, Issue{ColorID: def.ID, Field: field, Index: idx, Err: err})
	}

	if len(def.Selectors) == 0 {
		add("", 0, errors.New("no selectors"))
	}
	if _, err := SanitizeHexColor(def.Default); err != nil {
		add("default", 0, err)
	}
	if err := checkLengths(def); err != nil {
		var de *DefinitionError
		if errors.As(err, &de) {
			add(de.Field, de.Index, de.Err)
		}
		return issues
	}

	for i, sel := range def.Selectors {
		if _, err := selcss.Parse(withoutPseudo(sel)); err != nil {
			add("selectors", i, fmt.Errorf("%w: %v", errBadSelector, err))
		}
		if !isPropertyName(def.Attributes[i]) {
			add("attributes", i, fmt.Errorf("%w: %q", errBadAttribute, def.Attributes[i]))
		}
		if q := def.Queries.At(i); q != "" && !isAtRule(q) {
			add("queries", i, fmt.Errorf("%w: %q", errBadQuery, q))
		}
	}

	sample := def.Default
	if sample == "" {
		sample = "#000000"
	}
	rules, _ := buildRules(def, sample)
	for i, rule := range rules {
		if _, err := ParseRules(rule); err != nil {
			add("selectors", i, fmt.Errorf("%w: %v", errBadOutput, err))
		}
	}
	return issues
}

func isPropertyName(s string) bool {
	l := tcss.NewLexer(parse.NewInputString(s))
	tt, _ := l.Next()
	if tt != tcss.IdentToken && tt != tcss.CustomPropertyNameToken {
		return false
	}
	next, _ := l.Next()
	return next == tcss.ErrorToken
}

func isAtRule(s string) bool {
	l := tcss.NewLexer(parse.NewInputString(s))
	for {
		tt, _ := l.Next()
		switch tt {
		case tcss.WhitespaceToken, tcss.CommentToken:
			continue
		case tcss.AtKeywordToken:
			return true
		default:
			return false
		}
	}
}

// withoutPseudo drops pseudo-classes and pseudo-elements from sel, which the
// selector parser does not know. A compound left empty becomes "*".
func withoutPseudo(sel string) string {
	l := tcss.NewLexer(parse.NewInputString(sel))
	var b strings.Builder
	compoundEmpty := true
	for {
		tt, data := l.Next()
		switch tt {
		case tcss.ErrorToken:
			return b.String()
		case tcss.ColonToken:
			if compoundEmpty {
				b.WriteByte('*')
				compoundEmpty = false
			}
			skipPseudo(l)
			continue
		case tcss.WhitespaceToken, tcss.CommaToken:
			compoundEmpty = true
		case tcss.DelimToken:
			switch string(data) {
			case ">", "+", "~":
				compoundEmpty = true
			default:
				compoundEmpty = false
			}
		default:
			compoundEmpty = false
		}
		b.Write(data)
	}
}

// skipPseudo consumes the rest of a pseudo selector after its first colon,
// including a second colon and any functional arguments.
func skipPseudo(l *tcss.Lexer) {
	tt, _ := l.Next()
	if tt == tcss.ColonToken {
		tt, _ = l.Next()
	}
	if tt != tcss.FunctionToken {
		return
	}
	for depth := 1; depth > 0; {
		switch tt, _ = l.Next(); tt {
		case tcss.ErrorToken:
			return
		case tcss.FunctionToken, tcss.LeftParenthesisToken:
			depth++
		case tcss.RightParenthesisToken:
			depth--
		}
	}
}

package loader

import (
	"strings"

	"github.com/godilite/collab-dashboard/internal/survey"
)

// ParseKeywords reads a keyword cell. Exports write either a list literal
// such as ['소통', '친절'] or a plain comma separated list.
func ParseKeywords(cell string) []string {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "[]", "nan", "none", strings.ToLower(survey.NotAvailable):
		return nil
	}

	if strings.HasPrefix(cell, "[") && strings.HasSuffix(cell, "]") {
		return parseListLiteral(cell[1 : len(cell)-1])
	}

	var out []string
	for _, kw := range strings.Split(cell, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// parseListLiteral splits the body of a list literal on commas outside
// quotes. Quoted items may use either quote character and backslash escapes.
func parseListLiteral(body string) []string {
	var (
		out     []string
		cur     strings.Builder
		quote   rune
		escaped bool
		quoted  bool
	)
	flush := func() {
		item := cur.String()
		if !quoted {
			item = strings.TrimSpace(item)
		}
		if item != "" {
			out = append(out, item)
		}
		cur.Reset()
		quoted = false
	}

	for _, r := range body {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quote != 0 && r == '\\':
			escaped = true
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			if strings.TrimSpace(cur.String()) == "" {
				cur.Reset()
			}
			quote = r
			quoted = true
		case r == ',':
			flush()
		case r == ' ' || r == '\t':
			if !quoted {
				cur.WriteRune(r)
			}
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}

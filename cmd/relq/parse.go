package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bawdo/relq/nodes"
)

// tokenize splits input into tokens, respecting single-quoted strings
// and recognising the operators !=, <>, >= and <= and punctuation.
func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(input); i++ {
		ch := input[i]

		if inQuote {
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(input) && input[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
				} else {
					inQuote = false
					flush()
				}
			}
			continue
		}

		switch {
		case ch == '\'':
			flush()
			cur.WriteByte(ch)
			inQuote = true
		case ch == '(' || ch == ')' || ch == ',':
			flush()
			tokens = append(tokens, string(ch))
		case (ch == '!' || ch == '<' || ch == '>') && i+1 < len(input) && input[i+1] == '=':
			flush()
			tokens = append(tokens, input[i:i+2])
			i++
		case ch == '<' && i+1 < len(input) && input[i+1] == '>':
			flush()
			tokens = append(tokens, "<>")
			i++
		case ch == '=' || ch == '<' || ch == '>':
			flush()
			tokens = append(tokens, string(ch))
		case ch == ' ' || ch == '\t':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}
	flush()
	return tokens
}

// parseValue converts a token to a Go value suitable for nodes.Literal.
func parseValue(token string) (any, error) {
	switch strings.ToLower(token) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if len(token) >= 2 && strings.HasPrefix(token, "'") && strings.HasSuffix(token, "'") {
		return strings.ReplaceAll(token[1:len(token)-1], "''", "'"), nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("cannot parse value: %s", token)
}

// resolveColRef resolves "table.column" into an *Attribute using the
// registered tables and aliases.
func (s *Session) resolveColRef(ref string) (*nodes.Attribute, error) {
	name, col, ok := strings.Cut(ref, ".")
	if !ok || name == "" || col == "" {
		return nil, fmt.Errorf("expected table.column, got %q", ref)
	}
	if a, ok := s.aliases[name]; ok {
		return a.Col(col), nil
	}
	if t, ok := s.tables[name]; ok {
		return t.Col(col), nil
	}
	return nil, fmt.Errorf("unknown table or alias %q (register with 'table %s' first)", name, name)
}

// resolveTable returns a registered alias or table, registering a table
// of that name when neither exists.
func (s *Session) resolveTable(name string) nodes.Node {
	if a, ok := s.aliases[name]; ok {
		return a
	}
	return s.ensureTable(name)
}

// parseOperand turns a token into either a column reference or a value.
// Quoted strings are always values.
func (s *Session) parseOperand(token string) (any, error) {
	if !strings.HasPrefix(token, "'") && strings.Contains(token, ".") {
		if _, err := strconv.ParseFloat(token, 64); err != nil {
			return s.resolveColRef(token)
		}
	}
	return parseValue(token)
}

// orer is implemented by every predicate node.
type orer interface {
	Or(other nodes.Node) *nodes.GroupingNode
}

// parseExpression parses conditions joined by AND/OR, combined left to
// right: "a = 1 and b = 2 or c = 3" is ((a = 1 AND b = 2) OR c = 3).
// Each OR is grouped, so the text reads the way it renders.
func (s *Session) parseExpression(input string) (nodes.Node, error) {
	tokens := tokenize(input)
	if len(tokens) == 0 {
		return nil, errors.New("empty condition")
	}

	var result nodes.Node
	combinator := ""
	start := 0
	flush := func(end int) error {
		cond, err := s.parseCondition(tokens[start:end])
		if err != nil {
			return err
		}
		switch combinator {
		case "":
			result = cond
		case "and":
			result = nodes.And(result, cond)
		case "or":
			left, ok := result.(orer)
			if !ok {
				return fmt.Errorf("cannot OR onto %T", result)
			}
			result = left.Or(cond)
		}
		return nil
	}

	inBetween := false
	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		switch {
		case lower == "between":
			inBetween = true
		case lower == "and" && inBetween:
			inBetween = false
		case lower == "and" || lower == "or":
			if err := flush(i); err != nil {
				return nil, err
			}
			combinator = lower
			start = i + 1
		}
	}
	if err := flush(len(tokens)); err != nil {
		return nil, err
	}
	return result, nil
}

// parseCondition parses one predicate: "<col> <op> <operand>",
// "<col> is [not] null", "<col> [not] in (v, ...)", "<col> [not] between
// <low> and <high>" or "<col> [not] like|matches <value>".
func (s *Session) parseCondition(tokens []string) (nodes.Node, error) {
	if len(tokens) < 2 {
		return nil, fmt.Errorf("incomplete condition: %q", strings.Join(tokens, " "))
	}
	col, err := s.resolveColRef(tokens[0])
	if err != nil {
		return nil, err
	}
	op := strings.ToLower(tokens[1])
	rest := tokens[2:]

	negate := false
	if op == "not" {
		if len(rest) == 0 {
			return nil, errors.New("expected IN, LIKE, MATCHES or BETWEEN after NOT")
		}
		negate = true
		op = strings.ToLower(rest[0])
		rest = rest[1:]
	}

	switch op {
	case "is":
		return parseIsCondition(col, rest)
	case "in":
		return parseInCondition(col, rest, negate)
	case "between":
		return parseBetweenCondition(col, rest, negate)
	case "like", "matches":
		if len(rest) != 1 {
			return nil, fmt.Errorf("expected one value after %s", strings.ToUpper(op))
		}
		val, err := parseValue(rest[0])
		if err != nil {
			return nil, err
		}
		switch {
		case op == "like" && negate:
			return col.NotLike(val), nil
		case op == "like":
			return col.Like(val), nil
		case negate:
			return col.DoesNotMatch(val), nil
		default:
			return col.Matches(val), nil
		}
	}
	if negate {
		return nil, fmt.Errorf("expected IN, LIKE, MATCHES or BETWEEN after NOT, got %s", op)
	}

	if len(rest) != 1 {
		return nil, fmt.Errorf("expected one operand after %s", op)
	}
	operand, err := s.parseOperand(rest[0])
	if err != nil {
		return nil, err
	}
	switch op {
	case "=":
		return col.Eq(operand), nil
	case "!=", "<>":
		return col.NotEq(operand), nil
	case ">":
		return col.Gt(operand), nil
	case ">=":
		return col.GtEq(operand), nil
	case "<":
		return col.Lt(operand), nil
	case "<=":
		return col.LtEq(operand), nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

func parseIsCondition(col *nodes.Attribute, tokens []string) (nodes.Node, error) {
	switch strings.ToLower(strings.Join(tokens, " ")) {
	case "null":
		return col.IsNull(), nil
	case "not null":
		return col.IsNotNull(), nil
	}
	return nil, errors.New("expected NULL or NOT NULL after IS")
}

func parseInCondition(col *nodes.Attribute, tokens []string, negate bool) (nodes.Node, error) {
	vals := []any{}
	for _, t := range tokens {
		if t == "(" || t == ")" || t == "," {
			continue
		}
		val, err := parseValue(t)
		if err != nil {
			return nil, err
		}
		vals = append(vals, val)
	}
	if negate {
		return col.NotIn(vals...), nil
	}
	return col.In(vals...), nil
}

func parseBetweenCondition(col *nodes.Attribute, tokens []string, negate bool) (nodes.Node, error) {
	if len(tokens) != 3 || strings.ToLower(tokens[1]) != "and" {
		return nil, errors.New("expected: BETWEEN <low> AND <high>")
	}
	low, err := parseValue(tokens[0])
	if err != nil {
		return nil, err
	}
	high, err := parseValue(tokens[2])
	if err != nil {
		return nil, err
	}
	if negate {
		return col.NotBetween(low, high), nil
	}
	return col.Between(low, high), nil
}

// splitList splits a comma-separated argument list, ignoring commas
// inside parentheses and quotes.
func splitList(input string) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	inQuote := false
	for _, r := range input {
		switch {
		case r == '\'':
			inQuote = !inQuote
		case inQuote:
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			if p := strings.TrimSpace(cur.String()); p != "" {
				parts = append(parts, p)
			}
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	if p := strings.TrimSpace(cur.String()); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// parseProjection parses one projection: "*", "table.*", "table.col",
// an aggregate such as "count(*)" or "sum(orders.total)", optionally
// followed by "as <name>".
func (s *Session) parseProjection(item string) (nodes.Node, error) {
	expr, alias := item, ""
	fields := strings.Fields(item)
	if len(fields) >= 3 && strings.EqualFold(fields[len(fields)-2], "as") {
		alias = fields[len(fields)-1]
		expr = strings.Join(fields[:len(fields)-2], " ")
	}

	n, err := s.parseProjectionExpr(strings.TrimSpace(expr))
	if err != nil {
		return nil, err
	}
	if alias == "" {
		return n, nil
	}
	return nodes.NewAliasNode(n, alias), nil
}

func (s *Session) parseProjectionExpr(expr string) (nodes.Node, error) {
	if expr == "*" {
		return nodes.Star(), nil
	}
	if open := strings.Index(expr, "("); open > 0 && strings.HasSuffix(expr, ")") {
		name := strings.ToLower(strings.TrimSpace(expr[:open]))
		arg := strings.TrimSpace(expr[open+1 : len(expr)-1])
		return s.parseAggregate(name, arg)
	}
	if table, ok := strings.CutSuffix(expr, ".*"); ok {
		if a, ok := s.aliases[table]; ok {
			return nodes.NewAttribute(a, "*"), nil
		}
		return s.ensureTable(table).Star(), nil
	}
	return s.resolveColRef(expr)
}

func (s *Session) parseAggregate(name, arg string) (nodes.Node, error) {
	distinct := false
	if rest, ok := cutPrefixFold(arg, "distinct "); ok {
		distinct = true
		arg = strings.TrimSpace(rest)
	}

	var target nodes.Node
	if arg != "*" {
		col, err := s.resolveColRef(arg)
		if err != nil {
			return nil, err
		}
		target = col
	}

	switch name {
	case "count":
		if distinct {
			return nodes.CountDistinct(target), nil
		}
		return nodes.Count(target), nil
	}
	if target == nil || distinct {
		return nil, fmt.Errorf("%s requires a single column", strings.ToUpper(name))
	}
	switch name {
	case "sum":
		return nodes.Sum(target), nil
	case "avg":
		return nodes.Avg(target), nil
	case "min":
		return nodes.Min(target), nil
	case "max":
		return nodes.Max(target), nil
	}
	return nil, fmt.Errorf("unknown aggregate %q", name)
}

// parseOrdering parses "table.col [asc|desc]".
func (s *Session) parseOrdering(item string) (nodes.Node, error) {
	fields := strings.Fields(item)
	if len(fields) == 0 || len(fields) > 2 {
		return nil, fmt.Errorf("expected table.column [asc|desc], got %q", item)
	}
	col, err := s.resolveColRef(fields[0])
	if err != nil {
		return nil, err
	}
	if len(fields) == 1 {
		return col.Asc(), nil
	}
	switch strings.ToLower(fields[1]) {
	case "asc":
		return col.Asc(), nil
	case "desc":
		return col.Desc(), nil
	}
	return nil, fmt.Errorf("unknown direction %q", fields[1])
}

// parseAssignment parses "table.col = value".
func (s *Session) parseAssignment(item string) (*nodes.AssignmentNode, error) {
	ref, raw, ok := strings.Cut(item, "=")
	if !ok {
		return nil, fmt.Errorf("expected table.column = value, got %q", item)
	}
	col, err := s.resolveColRef(strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	val, err := parseValue(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	return col.Assign(val), nil
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

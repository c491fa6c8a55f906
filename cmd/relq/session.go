package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/engine/sqldb"
	"github.com/bawdo/relq/internal/config"
	"github.com/bawdo/relq/managers"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins/softdelete"
	"github.com/bawdo/relq/visitors"
)

var (
	errNoQuery      = errors.New("no query defined (use 'from <table>' first)")
	errNotConnected = errors.New("not connected (use 'connect <dsn>' first)")
)

// statement is what every manager offers the shell.
type statement interface {
	Tree() (nodes.Node, error)
	ToSQL() (string, error)
	Execute(ctx context.Context) (engine.Result, error)
}

// offlineEngine renders for a dialect but refuses to execute.
type offlineEngine struct {
	*engine.DialectQuoter
}

func (offlineEngine) Select(context.Context, string) (engine.Result, error) {
	return engine.Result{}, errNotConnected
}

func (offlineEngine) Insert(context.Context, string) (engine.Result, error) {
	return engine.Result{}, errNotConnected
}

func (offlineEngine) Update(context.Context, string, string) (engine.Result, error) {
	return engine.Result{}, errNotConnected
}

func (offlineEngine) Delete(context.Context, string, string) (engine.Result, error) {
	return engine.Result{}, errNotConnected
}

// commandEntry maps a command prefix to its handler. A prefix ending in a
// space takes arguments; any other prefix must match the whole line.
type commandEntry struct {
	prefix  string
	handler func(ctx context.Context, args string) error
	hidden  bool
}

// Session holds the shell state: registered tables, the query being
// built, the statement to render and the engine it renders with.
type Session struct {
	cfg      *config.Config
	logger   *slog.Logger
	eng      engine.Engine
	conn     *sqldb.Engine // nil when disconnected
	tables   map[string]*nodes.Table
	aliases  map[string]*nodes.TableAlias
	query    *managers.SelectManager
	stmt     statement // query, or a statement compiled from it
	sd       *softdelete.SoftDelete
	pretty   bool
	quiet    bool // suppress status messages
	commands []commandEntry
	out      io.Writer
}

// NewSession creates a session rendering for cfg.Engine. Nothing is
// connected until 'connect' runs.
func NewSession(cfg *config.Config, logger *slog.Logger, out io.Writer) (*Session, error) {
	q, err := engine.NewQuoter(cfg.Engine)
	if err != nil {
		return nil, err
	}
	s := &Session{
		cfg:     cfg,
		logger:  logger,
		eng:     offlineEngine{q},
		tables:  make(map[string]*nodes.Table),
		aliases: make(map[string]*nodes.TableAlias),
		pretty:  cfg.Pretty,
		out:     out,
	}
	if cfg.SoftDelete.Enabled {
		s.sd = newSoftDelete(cfg.SoftDelete.Column, cfg.SoftDelete.Tables)
	}
	s.initCommands()
	return s, nil
}

func newSoftDelete(column string, tables []string) *softdelete.SoftDelete {
	opts := []softdelete.Option{softdelete.WithColumn(column)}
	if len(tables) > 0 {
		opts = append(opts, softdelete.WithTables(tables...))
	}
	return softdelete.New(opts...)
}

// Close releases the database connection, if any.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// note prints a status message unless the session is quiet.
func (s *Session) note(format string, args ...any) {
	if !s.quiet {
		s.printf(format, args...)
	}
}

// initCommands builds the command registry and sorts it by prefix length,
// longest first, so "outer join " wins over "join ".
func (s *Session) initCommands() {
	s.commands = []commandEntry{
		{prefix: "help", handler: func(context.Context, string) error { s.cmdHelp(); return nil }},
		{prefix: "sql", handler: func(context.Context, string) error { return s.cmdSQL() }},
		{prefix: "tosql", handler: func(context.Context, string) error { return s.cmdSQL() }, hidden: true},
		{prefix: "dot ", handler: func(_ context.Context, a string) error { return s.cmdDot(a) }},
		{prefix: "dot", handler: func(context.Context, string) error { return s.cmdDot("") }},
		{prefix: "pretty", handler: func(context.Context, string) error { return s.cmdPretty() }},
		{prefix: "reset", handler: func(context.Context, string) error { return s.cmdReset() }},
		{prefix: "tables", handler: func(context.Context, string) error { return s.cmdTables() }},

		{prefix: "table ", handler: func(_ context.Context, a string) error { return s.cmdTable(a) }},
		{prefix: "alias ", handler: func(_ context.Context, a string) error { return s.cmdAlias(a) }},

		{prefix: "from ", handler: func(_ context.Context, a string) error { return s.cmdFrom(a) }},
		{prefix: "project ", handler: func(_ context.Context, a string) error { return s.cmdProject(a) }},
		{prefix: "select ", handler: func(_ context.Context, a string) error { return s.cmdProject(a) }, hidden: true},
		{prefix: "where ", handler: func(_ context.Context, a string) error { return s.cmdWhere(a) }},
		{prefix: "group ", handler: func(_ context.Context, a string) error { return s.cmdGroup(a) }},
		{prefix: "having ", handler: func(_ context.Context, a string) error { return s.cmdHaving(a) }},
		{prefix: "order ", handler: func(_ context.Context, a string) error { return s.cmdOrder(a) }},
		{prefix: "take ", handler: func(_ context.Context, a string) error { return s.cmdTake(a) }},
		{prefix: "limit ", handler: func(_ context.Context, a string) error { return s.cmdTake(a) }, hidden: true},
		{prefix: "skip ", handler: func(_ context.Context, a string) error { return s.cmdSkip(a) }},
		{prefix: "offset ", handler: func(_ context.Context, a string) error { return s.cmdSkip(a) }, hidden: true},
		{prefix: "distinct", handler: func(context.Context, string) error { return s.cmdDistinct() }},

		{prefix: "outer join ", handler: func(_ context.Context, a string) error { return s.cmdJoin(a, nodes.OuterJoin) }},
		{prefix: "join ", handler: func(_ context.Context, a string) error { return s.cmdJoin(a, nodes.InnerJoin) }},
		{prefix: "on ", handler: func(_ context.Context, a string) error { return s.cmdOn(a) }},

		{prefix: "insert ", handler: func(_ context.Context, a string) error { return s.cmdInsert(a) }},
		{prefix: "update ", handler: func(_ context.Context, a string) error { return s.cmdUpdate(a) }},
		{prefix: "delete", handler: func(context.Context, string) error { return s.cmdDelete() }},

		{prefix: "softdelete off", handler: func(context.Context, string) error { return s.cmdSoftDeleteOff() }},
		{prefix: "softdelete ", handler: func(_ context.Context, a string) error { return s.cmdSoftDelete(a) }},
		{prefix: "softdelete", handler: func(context.Context, string) error { return s.cmdSoftDelete("") }},

		{prefix: "engine ", handler: func(_ context.Context, a string) error { return s.cmdEngine(a) }},
		{prefix: "connect ", handler: func(ctx context.Context, a string) error { return s.cmdConnect(ctx, a) }},
		{prefix: "connect", handler: func(ctx context.Context, _ string) error { return s.cmdConnect(ctx, "") }},
		{prefix: "disconnect", handler: func(context.Context, string) error { return s.cmdDisconnect() }},
		{prefix: "exec", handler: func(ctx context.Context, _ string) error { return s.cmdExec(ctx) }},
		{prefix: "run", handler: func(ctx context.Context, _ string) error { return s.cmdExec(ctx) }, hidden: true},
	}
	sort.SliceStable(s.commands, func(i, j int) bool {
		return len(s.commands[i].prefix) > len(s.commands[j].prefix)
	})
}

// commandNames returns the visible command words, for completion.
func (s *Session) commandNames() []string {
	var names []string
	for _, c := range s.commands {
		if c.hidden {
			continue
		}
		name := strings.TrimSpace(c.prefix)
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Execute parses and runs a single command line.
func (s *Session) Execute(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	lower := strings.ToLower(line)

	for _, cmd := range s.commands {
		if strings.HasSuffix(cmd.prefix, " ") {
			if strings.HasPrefix(lower, cmd.prefix) {
				return cmd.handler(ctx, strings.TrimSpace(line[len(cmd.prefix):]))
			}
		} else if lower == cmd.prefix {
			return cmd.handler(ctx, "")
		}
	}

	word := strings.Fields(line)[0]
	return fmt.Errorf("unknown command: %s (type 'help' for commands)", word)
}

// ensureTable returns the table if registered, otherwise registers it.
func (s *Session) ensureTable(name string) *nodes.Table {
	if t, ok := s.tables[name]; ok {
		return t
	}
	t := nodes.NewTable(name)
	s.tables[name] = t
	return t
}

// newSelect returns an empty select manager on the current engine with
// the enabled plugins.
func (s *Session) newSelect() *managers.SelectManager {
	m := managers.NewSelectManager(s.eng)
	if s.sd != nil {
		m.Use(s.sd)
	}
	return m
}

// rebuild moves the query onto a fresh manager after the engine or the
// plugins changed. Any compiled INSERT/UPDATE/DELETE is dropped.
func (s *Session) rebuild() {
	if s.query == nil {
		s.stmt = nil
		return
	}
	core := s.query.Core
	s.query = s.newSelect()
	s.query.Core = core
	s.stmt = s.query
}

// selecting returns the query being built and makes it the current
// statement again.
func (s *Session) selecting() (*managers.SelectManager, error) {
	if s.query == nil {
		return nil, errNoQuery
	}
	s.stmt = s.query
	return s.query, nil
}

// Render returns the current statement's SQL, pretty-printed when enabled.
func (s *Session) Render() (string, error) {
	if s.stmt == nil {
		return "", errNoQuery
	}
	if !s.pretty {
		return s.stmt.ToSQL()
	}
	tree, err := s.stmt.Tree()
	if err != nil {
		return "", err
	}
	return visitors.Compile(visitors.NewFormattingVisitor(visitors.For(s.eng)), tree)
}

// --- Command handlers ---

func (s *Session) cmdTable(args string) error {
	names := strings.Fields(args)
	if len(names) == 0 {
		return errors.New("usage: table <name> [name ...]")
	}
	for _, name := range names {
		s.ensureTable(name)
		s.note("  Registered table %q\n", name)
	}
	return nil
}

func (s *Session) cmdAlias(args string) error {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return errors.New("usage: alias <table> <alias_name>")
	}
	tableName, aliasName := parts[0], parts[1]
	if _, ok := s.tables[aliasName]; ok {
		return fmt.Errorf("%q is already a table name", aliasName)
	}
	s.aliases[aliasName] = s.ensureTable(tableName).Alias(aliasName)
	s.note("  Aliased %q as %q\n", tableName, aliasName)
	return nil
}

func (s *Session) cmdTables() error {
	if len(s.tables) == 0 {
		s.printf("  No tables registered\n")
		return nil
	}
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s.printf("  %s\n", name)
		for _, a := range s.tables[name].Aliases() {
			s.printf("    alias %s\n", a.AliasName)
		}
	}
	return nil
}

func (s *Session) cmdFrom(args string) error {
	sources := splitList(args)
	if len(sources) == 0 {
		return errors.New("usage: from <table|alias> [, ...]")
	}
	s.query = s.newSelect()
	for _, name := range sources {
		s.query.From(s.resolveTable(name))
	}
	s.stmt = s.query
	return nil
}

func (s *Session) cmdProject(args string) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	items := splitList(args)
	if len(items) == 0 {
		return errors.New("usage: project <expr> [as name] [, ...]")
	}
	projections := make([]nodes.Node, 0, len(items))
	for _, item := range items {
		n, err := s.parseProjection(item)
		if err != nil {
			return err
		}
		projections = append(projections, n)
	}
	m.Project(projections...)
	return nil
}

func (s *Session) cmdWhere(args string) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	cond, err := s.parseExpression(args)
	if err != nil {
		return err
	}
	m.Where(cond)
	return nil
}

func (s *Session) cmdHaving(args string) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	cond, err := s.parseExpression(args)
	if err != nil {
		return err
	}
	m.Having(cond)
	return nil
}

func (s *Session) cmdGroup(args string) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	for _, item := range splitList(args) {
		col, err := s.resolveColRef(item)
		if err != nil {
			return err
		}
		m.Group(col)
	}
	return nil
}

func (s *Session) cmdOrder(args string) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	for _, item := range splitList(args) {
		o, err := s.parseOrdering(item)
		if err != nil {
			return err
		}
		m.Order(o)
	}
	return nil
}

func parseCount(args, usage string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 0 {
		return 0, errors.New(usage)
	}
	return n, nil
}

func (s *Session) cmdTake(args string) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	n, err := parseCount(args, "usage: take <n>")
	if err != nil {
		return err
	}
	m.Take(n)
	return nil
}

func (s *Session) cmdSkip(args string) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	n, err := parseCount(args, "usage: skip <n>")
	if err != nil {
		return err
	}
	m.Skip(n)
	return nil
}

func (s *Session) cmdDistinct() error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	m.Distinct(!m.Core.Distinct)
	s.note("  DISTINCT %s\n", onOff(m.Core.Distinct))
	return nil
}

func (s *Session) cmdJoin(args string, kind nodes.JoinType) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	name := strings.TrimSpace(args)
	if name == "" || strings.ContainsAny(name, " \t") {
		return errors.New("usage: [outer] join <table|alias>")
	}
	if kind == nodes.OuterJoin {
		m.OuterJoin(s.resolveTable(name))
	} else {
		m.Join(s.resolveTable(name))
	}
	return nil
}

func (s *Session) cmdOn(args string) error {
	m, err := s.selecting()
	if err != nil {
		return err
	}
	if len(m.Core.Joins) == 0 {
		return errors.New("no join to attach ON to (use 'join <table>' first)")
	}
	cond, err := s.parseExpression(args)
	if err != nil {
		return err
	}
	m.On(cond)
	return nil
}

func (s *Session) parseAssignments(args string) ([]nodes.Node, error) {
	items := splitList(args)
	if len(items) == 0 {
		return nil, errors.New("expected table.column = value [, ...]")
	}
	values := make([]nodes.Node, 0, len(items))
	for _, item := range items {
		a, err := s.parseAssignment(item)
		if err != nil {
			return nil, err
		}
		values = append(values, a)
	}
	return values, nil
}

// cmdInsert compiles an INSERT of one row. It targets the query's FROM
// table when there is a query, otherwise the first column's table.
func (s *Session) cmdInsert(args string) error {
	values, err := s.parseAssignments(args)
	if err != nil {
		return err
	}
	m := s.query
	if m == nil {
		m = s.newSelect()
	}
	s.stmt = m.CompileInsert(values...)
	return nil
}

func (s *Session) cmdUpdate(args string) error {
	if s.query == nil {
		return errNoQuery
	}
	values, err := s.parseAssignments(args)
	if err != nil {
		return err
	}
	s.stmt = s.query.CompileUpdate(values...)
	return nil
}

func (s *Session) cmdDelete() error {
	if s.query == nil {
		return errNoQuery
	}
	s.stmt = s.query.CompileDelete()
	return nil
}

func (s *Session) cmdSQL() error {
	sql, err := s.Render()
	if err != nil {
		return err
	}
	s.printf("%s\n", sql)
	return nil
}

func (s *Session) cmdDot(path string) error {
	if s.stmt == nil {
		return errNoQuery
	}
	tree, err := s.stmt.Tree()
	if err != nil {
		return err
	}
	dv := visitors.NewDotVisitor()
	tree.Accept(dv)
	dot := dv.ToDot()

	if path == "" {
		s.printf("%s", dot)
		return nil
	}
	if err := os.WriteFile(path, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.note("  Wrote %d nodes to %s\n", dv.NodeCount(), path)
	return nil
}

func (s *Session) cmdPretty() error {
	s.pretty = !s.pretty
	s.note("  Pretty printing %s\n", onOff(s.pretty))
	return nil
}

func (s *Session) cmdReset() error {
	s.query = nil
	s.stmt = nil
	s.note("  Query reset\n")
	return nil
}

// cmdSoftDelete enables the soft-delete filter: "softdelete [column]
// [table ...]". Without arguments it reports the current setting.
func (s *Session) cmdSoftDelete(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		if s.sd == nil {
			s.printf("  softdelete off\n")
		} else {
			s.printf("  softdelete on (column %q)\n", s.sd.Column)
		}
		return nil
	}
	s.sd = newSoftDelete(fields[0], fields[1:])
	s.rebuild()
	s.note("  softdelete on (column %q)\n", fields[0])
	return nil
}

func (s *Session) cmdSoftDeleteOff() error {
	s.sd = nil
	s.rebuild()
	s.note("  softdelete off\n")
	return nil
}

func (s *Session) cmdEngine(args string) error {
	if s.conn != nil {
		return errors.New("disconnect before changing engine")
	}
	q, err := engine.NewQuoter(strings.ToLower(strings.TrimSpace(args)))
	if err != nil {
		return err
	}
	s.eng = offlineEngine{q}
	s.rebuild()
	s.note("  Engine set to %s\n", q.Dialect())
	return nil
}

func (s *Session) cmdConnect(ctx context.Context, dsn string) error {
	if dsn == "" {
		dsn = s.cfg.DSN
	}
	if dsn == "" {
		return errors.New("usage: connect <dsn> (or set dsn in relq.yaml / RELQ_DSN)")
	}
	if err := s.Close(); err != nil {
		s.logger.Warn("closing previous connection", "error", err)
	}
	conn, err := sqldb.Open(ctx, s.eng.Dialect(), dsn, sqldb.WithLogger(s.logger))
	if err != nil {
		return err
	}
	s.conn = conn
	s.eng = conn
	s.rebuild()
	s.note("  Connected to %s\n", conn)
	return nil
}

func (s *Session) cmdDisconnect() error {
	if s.conn == nil {
		return errNotConnected
	}
	q := s.conn.DialectQuoter
	err := s.Close()
	s.eng = offlineEngine{q}
	s.rebuild()
	s.note("  Disconnected\n")
	return err
}

func (s *Session) cmdExec(ctx context.Context) error {
	if s.stmt == nil {
		return errNoQuery
	}
	res, err := s.stmt.Execute(ctx)
	if err != nil {
		return err
	}
	if _, ok := s.stmt.(*managers.SelectManager); ok {
		s.printf("%s", formatResult(res))
	} else {
		s.printf("%s", formatAffected(res))
	}
	return nil
}

func (s *Session) cmdHelp() {
	s.printf(`Tables:
  table <name> [name ...]       register tables
  alias <table> <alias>         register an alias
  tables                        list tables and aliases

Query:
  from <table> [, ...]          start a new SELECT
  project <expr> [as n], ...    columns, table.*, *, count(*), sum(t.c) ...
  where <condition>             t.c = 1 and t.d is null or t.e in (1, 2)
  join <table> | outer join     add a join, then: on t.a = u.b
  group <cols> | having <cond>
  order <t.c [asc|desc]>, ...
  take <n> | skip <n> | distinct

Statements:
  insert t.c = v, ...           INSERT a row
  update t.c = v, ...           UPDATE rows matching the WHERE clause
  delete                        DELETE rows matching the WHERE clause

Output:
  sql                           render the current statement
  pretty                        toggle multi-line SQL
  dot [file]                    Graphviz DOT of the statement tree
  engine <postgres|mysql|sqlite>
  connect [dsn] | disconnect | exec
  softdelete [column [tables...]] | softdelete off
  reset | help | exit
`)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

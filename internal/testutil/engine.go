package testutil

import (
	"context"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
)

// Executed is one statement a RecordingEngine was asked to run.
type Executed struct {
	Kind      string // "select", "insert", "update" or "delete"
	SQL       string
	SourceTag string
}

// RecordingEngine is an engine.Engine that executes nothing: it records
// every statement and answers with Result (or Err). Quoting is delegated
// to Quoter, PostgreSQL rules when nil.
type RecordingEngine struct {
	Quoter   *engine.DialectQuoter
	Result   engine.Result
	Err      error
	Executed []Executed
}

var _ engine.Engine = (*RecordingEngine)(nil)

// NewRecordingEngine returns a RecordingEngine for the given dialect.
// It panics on an unknown dialect.
func NewRecordingEngine(dialect string) *RecordingEngine {
	q, err := engine.NewQuoter(dialect)
	if err != nil {
		panic(err)
	}
	return &RecordingEngine{Quoter: q}
}

func (e *RecordingEngine) quoter() *engine.DialectQuoter {
	if e.Quoter == nil {
		return engine.PostgresQuoter
	}
	return e.Quoter
}

func (e *RecordingEngine) Dialect() string { return e.quoter().Dialect() }

func (e *RecordingEngine) Quote(value any, column *nodes.Attribute) string {
	return e.quoter().Quote(value, column)
}

func (e *RecordingEngine) QuoteTableName(name string) string {
	return e.quoter().QuoteTableName(name)
}

func (e *RecordingEngine) QuoteColumnName(name string) string {
	return e.quoter().QuoteColumnName(name)
}

func (e *RecordingEngine) record(kind, sql, tag string) (engine.Result, error) {
	e.Executed = append(e.Executed, Executed{Kind: kind, SQL: sql, SourceTag: tag})
	if e.Err != nil {
		return engine.Result{}, e.Err
	}
	return e.Result, nil
}

func (e *RecordingEngine) Select(_ context.Context, sql string) (engine.Result, error) {
	return e.record("select", sql, "")
}

func (e *RecordingEngine) Insert(_ context.Context, sql string) (engine.Result, error) {
	return e.record("insert", sql, "")
}

func (e *RecordingEngine) Update(_ context.Context, sql, sourceTag string) (engine.Result, error) {
	return e.record("update", sql, sourceTag)
}

func (e *RecordingEngine) Delete(_ context.Context, sql, sourceTag string) (engine.Result, error) {
	return e.record("delete", sql, sourceTag)
}

// Last returns the most recently executed statement, or the zero value.
func (e *RecordingEngine) Last() Executed {
	if len(e.Executed) == 0 {
		return Executed{}
	}
	return e.Executed[len(e.Executed)-1]
}

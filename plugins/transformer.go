// Package plugins holds the transformer hooks the managers run over a
// statement before it is rendered or executed.
package plugins

import (
	"fmt"

	"github.com/bawdo/relq/nodes"
)

// Transformer rewrites a statement tree. Managers hand it a private copy
// (a cloned SelectCore, InsertStatement, UpdateStatement or
// DeleteStatement) on every Tree, ToSQL or Execute, so a transformer may
// mutate its argument in place. Returning an error aborts the render.
type Transformer interface {
	TransformSelect(core *nodes.SelectCore) (*nodes.SelectCore, error)
	TransformInsert(stmt *nodes.InsertStatement) (*nodes.InsertStatement, error)
	TransformUpdate(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error)
	TransformDelete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error)
}

// BaseTransformer passes every statement through unchanged. Embed it and
// override the statement kinds a plugin cares about.
type BaseTransformer struct{}

func (BaseTransformer) TransformSelect(c *nodes.SelectCore) (*nodes.SelectCore, error) {
	return c, nil
}

func (BaseTransformer) TransformInsert(s *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return s, nil
}

func (BaseTransformer) TransformUpdate(s *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return s, nil
}

func (BaseTransformer) TransformDelete(s *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return s, nil
}

// Pipeline runs transformers in registration order, each one seeing the
// previous one's output.
type Pipeline []Transformer

// Select runs TransformSelect over core.
func (p Pipeline) Select(core *nodes.SelectCore) (*nodes.SelectCore, error) {
	return run(p, core, Transformer.TransformSelect)
}

// Insert runs TransformInsert over stmt.
func (p Pipeline) Insert(stmt *nodes.InsertStatement) (*nodes.InsertStatement, error) {
	return run(p, stmt, Transformer.TransformInsert)
}

// Update runs TransformUpdate over stmt.
func (p Pipeline) Update(stmt *nodes.UpdateStatement) (*nodes.UpdateStatement, error) {
	return run(p, stmt, Transformer.TransformUpdate)
}

// Delete runs TransformDelete over stmt.
func (p Pipeline) Delete(stmt *nodes.DeleteStatement) (*nodes.DeleteStatement, error) {
	return run(p, stmt, Transformer.TransformDelete)
}

func run[S any](p Pipeline, stmt S, step func(Transformer, S) (S, error)) (S, error) {
	for _, t := range p {
		out, err := step(t, stmt)
		if err != nil {
			var zero S
			return zero, fmt.Errorf("relq: transformer %T: %w", t, err)
		}
		stmt = out
	}
	return stmt, nil
}

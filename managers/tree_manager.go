package managers

import (
	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
	"github.com/bawdo/relq/plugins"
	"github.com/bawdo/relq/visitors"
)

// treeManager is the shared base for all manager types. It holds the
// injected engine and the transformer pipeline common to Select, Insert,
// Update, and Delete managers.
type treeManager struct {
	engine       engine.Engine
	transformers plugins.Pipeline

	// err is the first builder misuse, reported by the next render.
	err error
}

// fail records err unless an earlier error is already pending.
func (tm *treeManager) fail(err error) {
	if tm.err == nil {
		tm.err = err
	}
}

// Engine returns the engine the manager renders and executes with.
func (tm *treeManager) Engine() engine.Engine {
	return tm.engine
}

// addTransformer appends a transformer plugin to the pipeline.
func (tm *treeManager) addTransformer(t plugins.Transformer) {
	tm.transformers = append(tm.transformers, t)
}

// Transformers returns the registered transformer pipeline.
func (tm *treeManager) Transformers() []plugins.Transformer {
	return tm.transformers
}

// render compiles n with the visitor for the engine's dialect. The visitor
// is looked up on every call, so swapping quoters between renders is safe.
func (tm *treeManager) render(n nodes.Node) (string, error) {
	if tm.engine == nil {
		return "", errNoEngine
	}
	return visitors.Compile(visitors.For(tm.engine), n)
}

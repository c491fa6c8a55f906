package visitors

import (
	"errors"
	"fmt"

	"github.com/bawdo/relq/engine"
	"github.com/bawdo/relq/nodes"
)

// ErrUnsupportedNode is matched by UnsupportedNodeError.
var ErrUnsupportedNode = errors.New("relq: unsupported node")

// UnsupportedNodeError reports a node the visitor cannot render, either
// because the dialect has no SQL for it or because a required child is
// missing.
type UnsupportedNodeError struct {
	Node   nodes.Node
	Reason string
}

func (e *UnsupportedNodeError) Error() string {
	if e.Node == nil {
		return "relq: cannot compile: " + e.Reason
	}
	return fmt.Sprintf("relq: cannot compile %T: %s", e.Node, e.Reason)
}

// Is reports whether target is ErrUnsupportedNode.
func (e *UnsupportedNodeError) Is(target error) bool {
	return target == ErrUnsupportedNode
}

// Compile renders n with v. Rendering failures raised while walking the
// tree (unsupported nodes, unquotable values) are returned as errors;
// any other panic is not ours and is re-raised.
func Compile(v nodes.Visitor, n nodes.Node) (sql string, err error) {
	if n == nil {
		return "", &UnsupportedNodeError{Reason: "nil node"}
	}
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *UnsupportedNodeError:
				err = e
			case *engine.UnsupportedValueError:
				err = e
			default:
				panic(r)
			}
		}
	}()
	return n.Accept(v), nil
}

// visualize.go: Graphviz DOT rendering of parsed programs.
//
// VisualizeAST emits a plain-text DOT digraph suitable for `dot -Tpng`; no
// Graphviz binding is required at runtime. Node identity is allocation order,
// so output is deterministic for a given program.
package boomerang

import (
	"fmt"
	"strings"
)

type astVisualizer struct {
	b      strings.Builder
	nextID int
}

// VisualizeAST renders the statements as a Graphviz DOT digraph.
func VisualizeAST(statements []Expression) string {
	v := &astVisualizer{}
	v.b.WriteString("digraph ast {\n")
	v.b.WriteString("\tlabel=\"Abstract Syntax Tree (AST)\";\n")
	for _, statement := range statements {
		v.visualize(statement)
	}
	v.b.WriteString("}\n")
	return v.b.String()
}

// visualize emits the node for expression and edges to its children,
// returning the node's id.
func (v *astVisualizer) visualize(expression Expression) int {
	switch e := expression.(type) {
	case *BinaryExpression:
		id := v.node(e.Operator.Literal)
		v.edge(id, v.visualize(e.Left))
		v.edge(id, v.visualize(e.Right))
		return id

	case *UnaryExpression:
		id := v.node(e.Operator.Literal)
		v.edge(id, v.visualize(e.Operand))
		return id

	case *Factorial:
		id := v.node("!")
		v.edge(id, v.visualize(e.Operand))
		return id

	case *Assignment:
		id := v.node(e.Variable + " =")
		v.edge(id, v.visualize(e.Value))
		return id

	case *List:
		id := v.node("list")
		for _, value := range e.Values {
			v.edge(id, v.visualize(value))
		}
		return id

	case *Function:
		params := make([]string, len(e.Parameters))
		for i, p := range e.Parameters {
			params[i] = p.Name
		}
		id := v.node("function (" + strings.Join(params, ", ") + ")")
		v.edge(id, v.visualize(e.Body))
		return id

	case *FunctionCall:
		id := v.node("call")
		v.edge(id, v.visualize(e.Function))
		v.edge(id, v.visualize(e.Arguments))
		return id

	case *When:
		id := v.node("when")
		v.edge(id, v.visualize(e.Subject))
		for _, c := range e.Cases {
			caseID := v.node("is")
			v.edge(id, caseID)
			v.edge(caseID, v.visualize(c.Condition))
			v.edge(caseID, v.visualize(c.Result))
		}
		return id
	}

	// Leaf values label themselves with their display form.
	return v.node(expression.String())
}

func (v *astVisualizer) node(label string) int {
	id := v.nextID
	v.nextID++
	fmt.Fprintf(&v.b, "\tn%d [label=%q];\n", id, label)
	return id
}

func (v *astVisualizer) edge(from, to int) {
	fmt.Fprintf(&v.b, "\tn%d -> n%d;\n", from, to)
}

// environment.go: chained variable scopes.
package boomerang

// Environment is one scope in a parent-linked chain. Lookup walks
// child-to-parent and the first hit wins; Set always binds in this scope, so
// an inner binding shadows an outer one without touching it.
//
// A child environment is created on function entry and discarded on function
// exit; the chain is never cyclic.
type Environment struct {
	variables map[string]Expression
	parent    *Environment
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		variables: make(map[string]Expression),
		parent:    parent,
	}
}

// Get resolves a name through the scope chain.
func (e *Environment) Get(name string) (Expression, bool) {
	for env := e; env != nil; env = env.parent {
		if value, ok := env.variables[name]; ok {
			return value, true
		}
	}
	return nil, false
}

// Set binds a name in this scope.
func (e *Environment) Set(name string, value Expression) {
	e.variables[name] = value
}

// Parent returns the enclosing scope, or nil at the root.
func (e *Environment) Parent() *Environment { return e.parent }

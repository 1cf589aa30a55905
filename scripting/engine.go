package scripting

import "context"

// Engine evaluates JavaScript. The artifact packager uses it to prove
// the embedded viewer script is well-formed before shipping it.
type Engine interface {
	Execute(ctx context.Context, script string) (interface{}, error)
}

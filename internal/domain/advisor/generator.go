package advisor

import "context"

// Generator produces a natural-language advisory for a computed
// snapshot. Implemented by the OpenAI-compatible client in the
// infrastructure layer.
//
// Generators are best effort: the orchestrator converts any error into
// an absent advice field and never retries.
type Generator interface {
	Generate(ctx context.Context, snapshot *Snapshot, findings []Finding, lang string) (string, error)
}

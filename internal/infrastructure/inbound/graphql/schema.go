// Package graphql exposes the post service as a GraphQL schema.
package graphql

import (
	_ "embed"

	"github.com/graph-gophers/graphql-go"

	post_service "blog-post-service/internal/domain/ports/input/post"
	ports "blog-post-service/internal/domain/ports/output"
)

//go:embed schema.graphql
var SDL string

// maxDepth leaves room for the playground introspection query.
const maxDepth = 16

// NewSchema parses the SDL and binds it to the service. It panics when the
// resolvers do not match the SDL.
func NewSchema(service post_service.Service, log ports.Logger) *graphql.Schema {
	return graphql.MustParseSchema(SDL, NewResolver(service, log), graphql.MaxDepth(maxDepth))
}

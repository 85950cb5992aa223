// Package sqlkit provides a database-agnostic SQL statement builder.
//
// Statements are assembled as an expression tree by the fluent builders in
// dialect/sql, serialized into dialect-correct SQL text plus an ordered list
// of bound parameters, and executed against a pluggable connection
// abstraction defined in the dialect package. Executions can optionally
// collect structured performance metrics.
//
// The root package holds the error taxonomy shared by all layers. The
// interesting parts live in the sub-packages:
//
//   - dialect: connection abstraction and per-dialect capability descriptors
//   - dialect/sql: expression AST, serializer, builders, execution funnel,
//     and the performance record engine
package sqlkit

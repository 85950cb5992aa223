// Package sql assembles SQL statements as expression trees, serializes them
// into dialect-correct text plus ordered bind values, and executes them
// through the dialect package's connection abstraction.
//
// # Building
//
// Statements are assembled with fluent builders whose methods return the
// receiver for chaining:
//
//	sql.Select("id", "name").
//	    From("users").
//	    Where(sql.EQ("status", "active")).
//	    OrderByExpr(sql.Desc("created_at")).
//	    Limit(10)
//
//	sql.Insert("users").
//	    Columns("name", "email").
//	    Values("alice", "alice@example.com").
//	    OnConflictIgnore("email").
//	    Returning("id")
//
// # Serializing
//
// Serialization is dialect-aware through the capability descriptor:
//
//	features := dialect.FeaturesFor(dialect.Postgres)
//	query, args, err := stmt.Query(features)
//	// query: SELECT "id", "name" FROM "users" WHERE "status" = $1 ...
//	// args:  ["active"]
//
// Optional clauses a dialect cannot express (locking reads, RETURNING)
// degrade silently; degradations that would change statement semantics
// (multi-row INSERT on a single-row dialect, an inexpressible conflict
// strategy) log a warning but still emit complete SQL.
//
// # Executing
//
// Every execution flows through a single primitive that streams rows to a
// callback; All, First and Exec are layered on it, as are the *Recorded
// variants that return a performance Record alongside the result:
//
//	users, rec, err := sql.AllRecorded(ctx, drv, stmt, decodeUser)
//	fmt.Println(rec) // sqlkit.serialization.duration=12µs ...
package sql

// Package sqlite is the durable store behind the document, embedding
// and scheduler ports, backed by modernc.org/sqlite (pure Go, no CGO).
// One database file in WAL mode carries all tables; the schema is
// applied through the embedded migrations in migrations/.
//
// The database lives at ~/.docsage/data/docsage.db unless a data
// directory is passed in. Embedding records are content-addressed, so
// deleting a document never touches vectors another document may
// share.
package sqlite

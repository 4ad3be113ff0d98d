// Package erldoc provides a batch ingestion tool for Erlang standard library
// documentation. It fetches module pages from a documentation host, extracts
// the fragments the site renders, normalizes links for the site's router, and
// persists one JSON record per locale and module.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/).
package erldoc

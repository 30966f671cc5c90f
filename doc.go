// Package hrpc is the Composition Root for the HRPC content layer.
//
// It connects the content domain (announcements, staff, documents and
// meeting records) with the storage adapters that persist it, following a
// Hexagonal Architecture: the mutation rules live in pkg/mutation and never
// know which backend they are talking to.
//
// Philosophy:
//
// HRPC keeps the site's four editable collections in a tiny key/value store.
// Each collection is one key holding an ordered JSON array. The first read of
// a missing key seeds it with the built-in dataset, so a fresh install always
// renders something. Guests only read; a maintainer (after the secret gate)
// adds, edits, inline-updates and deletes records.
//
// Features:
//
//   - **Seeded Collections**: Missing keys are populated from built-in defaults exactly once.
//   - **Stable Identity**: Records keep their id and position across edits.
//   - **Ordering Policy**: News and meetings prepend, staff and files append.
//   - **Pluggable Storage**: fs (default), memory, sqlite, postgres, mongo and s3 adapters.
//   - **Typed Access**: Generic repositories (`typed.Repository[T]`) over the raw store.
//
// Usage:
//
//	site, err := hrpc.New(ctx, "./data",
//		hrpc.WithMode(core.Maintainer),
//		hrpc.WithLogger(logger),
//	)
//
//	// Add an announcement (prepended to the list)
//	rec, err := site.Coordinator.Add(ctx, content.KindNews, content.Values{
//		"date": "2025-12-01", "title": "Notice", "description": "...",
//	})
package hrpc

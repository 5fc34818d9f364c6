// Package pkg provides the core libraries for the KitForge jersey design studio.
//
// # Overview
//
// KitForge turns a team roster and a set of jersey artwork images into
// print-ready raster exports. Designers place names, numbers, custom text
// and logos on a canvas, the layout is remembered as a roster-wide
// template, and the export engine renders each player's jersey at print
// resolution. The pkg directory is organized into four main areas:
//
//  1. Design state (scene, layout, view, template) - the canvas model
//  2. Inputs (roster, assets, fonts, cache) - what gets placed on it
//  3. Output (export) - rendering and archiving
//  4. Collaborators (points, httputil, observability) - external services
//
// # Architecture
//
// The typical data flow through KitForge:
//
//	Roster + Artwork Images
//	         ↓
//	    [view] package (build the per-view scene)
//	         ↓
//	    [scene] + [layout] packages (objects, geometry, text metrics)
//	         ↕
//	    [template] package (persist placements across players)
//	         ↓
//	    [export] package (raster rendering, points deduction, archives)
//	         ↓
//	    PNG / ZIP output
//
// # Quick Start
//
// Open a session, pick a player and export the back view:
//
//	import (
//	    "context"
//	    "github.com/kitforge/kitforge/pkg/export"
//	    "github.com/kitforge/kitforge/pkg/roster"
//	    "github.com/kitforge/kitforge/pkg/studio"
//	)
//
//	// 1. Build a session (zero-value Config runs fully offline)
//	sess, _ := studio.NewSession(context.Background(), studio.Config{})
//
//	// 2. Load the team
//	team, _ := roster.ParseCSV(f)
//	_ = sess.SetRoster(team)
//
//	// 3. Select a player (loads the front view)
//	_ = sess.SelectPlayer(context.Background(), 0)
//
//	// 4. Export at print resolution
//	path, _ := sess.ExportView(context.Background(), export.QualityHigh)
//
// # Main Packages
//
// ## Design State
//
// [scene] - The canvas model: typed objects (artwork, name, number, custom
// text, logos) with position, scale, rotation and opacity, grouped per view.
// Mutations emit events consumed by the template tracker.
//
// [layout] - Geometry and text measurement: design bounds, auto-centering,
// size-aware placement of the name and number blocks.
//
// [view] - The view loader state machine. Switching between front, back,
// sleeves and collar snapshots the outgoing view, rebuilds the incoming one
// from artwork plus the template, and tolerates superseding loads.
//
// [template] - The roster-wide layout template: a tracker that observes
// scene events and a [template.Store] with file, Redis, MongoDB and memory
// backends.
//
// ## Inputs
//
// [roster] - Team rosters parsed from CSV or JSON, validated player fields
// (name, jersey number, garment size).
//
// [assets] - Artwork and logo loading with decode, downscale and cache
// integration.
//
// [fonts] - Font resolution over configured directories with a measuring
// fallback, so layout works without any fonts installed.
//
// [cache] - Byte caches for fetched assets: file-backed for the CLI, null
// for tests.
//
// ## Output
//
// [export] - The export engine: quality tiers, size-dependent print scale,
// per-view and per-component rendering, bulk roster exports into a single
// ZIP archive, and the points deduction contract.
//
// ## Collaborators
//
// [points] - HTTP client for the points balance service plus a static
// offline implementation.
//
// [httputil] - Shared HTTP client construction with timeouts and retries.
//
// [observability] - Hook points (exports, deductions) used by the CLI
// progress UI.
//
// [errors] - Coded errors with user-facing messages; every failure surfaced
// by the CLI or API carries a stable code.
//
// # Common Workflows
//
// Parse a roster and validate it:
//
//	team, _ := roster.ParseJSON(f)
//	if err := team.Validate(); err != nil { ... }
//
// Persist the template in Redis instead of a file:
//
//	store, _ := template.NewRedisStore(ctx, template.RedisConfig{Addr: "localhost:6379"})
//	sess, _ := studio.NewSession(ctx, studio.Config{Store: store})
//
// Export every player in one archive:
//
//	archive, _ := sess.ExportBulk(ctx, export.QualityUltra)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/export/...   # Specific package
//	go test ./internal/...     # CLI and API
//
// [scene]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/scene
// [layout]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/layout
// [view]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/view
// [template]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/template
// [template.Store]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/template#Store
// [roster]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/roster
// [assets]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/assets
// [fonts]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/fonts
// [cache]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/cache
// [export]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/export
// [points]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/points
// [httputil]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/httputil
// [observability]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/observability
// [errors]: https://pkg.go.dev/github.com/kitforge/kitforge/pkg/errors
package pkg

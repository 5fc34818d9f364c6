// Package scene implements the design-canvas scene graph for KitForge.
//
// A Scene holds an ordered list of Objects: jersey artwork layers, the
// player name and number, custom texts, custom logos, and UI-only overlays.
// Every object carries a closed Kind tag; the bounds resolver and the view
// loader match on kinds exhaustively instead of comparing free-form strings.
//
// # Coordinate Model
//
// Object positions are center-origin: X and Y locate the object's center on
// the canvas. Width and Height are the untransformed base size; ScaleX,
// ScaleY and Rotation (degrees) are applied around the center. Extent()
// returns the post-transform axis-aligned bounding rectangle.
//
// # Mutation Events
//
// Scenes publish mutation events (add, move, scale, rotate, restyle,
// remove) to registered subscribers. The template tracker uses these to
// persist live edits incrementally. Scenes follow a single-mutator
// discipline: exactly one goroutine mutates a scene at a time, so only
// subscriber registration is guarded by a lock.
package scene

// Package service holds the stateless operations that mutate the scene graph
// while keeping it consistent.
//
// [SceneService] creates, deletes, duplicates, reparents and moves objects
// inside one scene. [TagService] aggregates and edits tags across a project.
// [ProjectService] creates, decodes and encodes whole projects.
//
// Lookups that miss are reported as a false or nil result, never as a panic.
// Operations that can fail for more than one reason return an error from
// [github.com/matzehuels/sceneforge/pkg/errors] so callers can tell a
// missing object from a rejected cycle.
package service

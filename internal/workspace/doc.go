// Package workspace owns the directory tree a build operates on.
//
// A Workspace is a root directory addressed with slash-separated relative
// paths. Listings are returned as snapshots in lexical walk order, so a stage
// that rewrites files while iterating never observes its own writes. All
// writes go through WriteFileAtomic.
//
// Manager provisions scratch directories (ephemeral, timestamped) or fixed
// directories (persistent) for content fetched from outside the workspace.
package workspace

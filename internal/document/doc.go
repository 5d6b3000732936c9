// Package document models a Markdown file in the workspace: YAML front
// matter metadata plus a Markdown body, addressed by its slash-separated
// workspace-relative path.
//
// A Document's path never changes. Its AST is parsed at most once and is
// never written back; only Metadata and Body are persisted, together, through
// an atomic replace of the file.
package document

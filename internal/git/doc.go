// Package git fetches a content source from a Git repository.
//
// The pipeline clones the repository into a temporary workspace before
// staging, so a build can run from a remote docs repository the same way it
// runs from a local pages directory. Transient failures are retried with a
// backoff policy; authentication and unknown references fail at once.
package git

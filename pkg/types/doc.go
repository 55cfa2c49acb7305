// Package types defines the shared data model for shellstrap: tool
// descriptors, step outcomes, the run report, and the filesystem and path
// interfaces the rest of the codebase is written against.
package types

// Package domain defines the core business entities and interfaces for plox-version.
package domain

// SourceKind discriminates where the raw version comes from.
type SourceKind int

const (
	// SourceUnset means no version source was provided.
	SourceUnset SourceKind = iota

	// SourceExplicit means the version was passed directly.
	SourceExplicit

	// SourceFile means the version is read from a version file.
	SourceFile
)

// String returns a short name for the source kind, used in log fields.
func (k SourceKind) String() string {
	switch k {
	case SourceExplicit:
		return "explicit"
	case SourceFile:
		return "file"
	default:
		return "unset"
	}
}

// VersionSource is a discriminated choice between an explicit version string
// and a path to a version file.
type VersionSource struct {
	// Kind selects which of Value or Path is meaningful.
	Kind SourceKind

	// Value is the explicit version string (SourceExplicit).
	Value string

	// Path is the version file path (SourceFile).
	Path string
}

// ExplicitVersion returns a VersionSource for a version given directly.
func ExplicitVersion(value string) VersionSource {
	return VersionSource{Kind: SourceExplicit, Value: value}
}

// VersionFile returns a VersionSource for a version read from a file.
func VersionFile(path string) VersionSource {
	return VersionSource{Kind: SourceFile, Path: path}
}

// ResolveInput contains the parameters for a single version resolution.
type ResolveInput struct {
	// Source is where the raw version comes from.
	Source VersionSource

	// WorkingDir is the root of the working tree to inspect.
	WorkingDir string
}

// ResolveOutput contains the result of a successful version resolution.
type ResolveOutput struct {
	// Version is the final version string written to stdout.
	Version string

	// RawVersion is the version before any commit suffix was appended.
	RawVersion string

	// State is the repository state observed during resolution.
	State RepositoryState
}

// RepositoryState is the dirty/clean state of a working tree.
// CommitID is only populated when Dirty is true.
type RepositoryState struct {
	Dirty    bool
	CommitID string
}

// QueryResult is the outcome of a single repository query.
type QueryResult struct {
	// ExitCode is the process exit code of the query.
	ExitCode int

	// Stdout holds the decoded, non-empty stdout lines.
	Stdout []string

	// Stderr holds the decoded, non-empty stderr lines.
	Stderr []string
}

// VersionSuffixSeparator joins the raw version and the commit id on a dirty tree.
const VersionSuffixSeparator = "+"

package ports

import "context"

// ProjectSource defines how a project's flow document and anchor images are reached.
type ProjectSource interface {
	// LoadDocument returns the decoded flow document as a generic mapping, ready for compiler.Parse.
	LoadDocument(ctx context.Context) (map[string]any, error)

	// StatAnchor checks that the anchor image at the project-relative path exists.
	// A missing image is reported with an error wrapping fs.ErrNotExist.
	StatAnchor(ctx context.Context, path string) error

	// Location describes where the project lives (a directory, "memory", ...), for diagnostics.
	Location() string
}

package catalog

import (
	"strings"

	"github.com/goto/jobtrail/internal/errors"
)

const (
	pathSeparator  = `\`
	minPathLength  = 3
	PackageFileExt = ".dtsx"
)

// PackageReference points at a deployed package by its catalog path folder\project\package.dtsx
type PackageReference struct {
	Folder  string
	Project string
	Package string
}

// PackageReferenceFrom splits a catalog path. Extra components after the package are ignored,
// fewer than three components is rejected.
func PackageReferenceFrom(path string) (PackageReference, error) {
	trimmed := strings.Trim(strings.TrimSpace(path), pathSeparator)
	if trimmed == "" {
		return PackageReference{}, errors.InvalidArgument(EntityPackageReference, "package path is empty")
	}

	parts := strings.Split(trimmed, pathSeparator)
	if len(parts) < minPathLength {
		return PackageReference{}, errors.InvalidArgument(EntityPackageReference, "invalid package path format "+path)
	}

	ref := PackageReference{
		Folder:  parts[0],
		Project: parts[1],
		Package: parts[2],
	}
	if ref.Folder == "" || ref.Project == "" || ref.Package == "" {
		return PackageReference{}, errors.InvalidArgument(EntityPackageReference, "invalid package path format "+path)
	}
	return ref, nil
}

func (r PackageReference) Path() string {
	return strings.Join([]string{r.Folder, r.Project, r.Package}, pathSeparator)
}

func (r PackageReference) IsZero() bool {
	return r == PackageReference{}
}

func (r PackageReference) Matches(e *Execution) bool {
	return e != nil && e.Folder == r.Folder && e.Project == r.Project && e.Package == r.Package
}

func invalidExecutionID(raw string) error {
	return errors.InvalidArgument(EntityExecution, "invalid execution id "+raw)
}

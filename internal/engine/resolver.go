package engine

import "path"

// PlaceholderModuleFile is the only file name VirtualResolver reports as
// existing. It stands for "the buffer we were given".
const PlaceholderModuleFile = "mod.rs"

// Resolver is the module-resolution policy consulted when a source file
// refers to a module stored in another file.
type Resolver interface {
	FileExists(path string) bool
	ReadFile(path string) (string, error)
}

// VirtualResolver keeps an analysis hermetic: every out-of-line module
// resolves to the placeholder file, whose content is empty. It never touches
// storage.
type VirtualResolver struct{}

// NewVirtualResolver returns the resolver used for single-buffer analysis.
func NewVirtualResolver() *VirtualResolver {
	return &VirtualResolver{}
}

// FileExists reports true only for the placeholder module file name.
func (VirtualResolver) FileExists(p string) bool {
	return path.Base(p) == PlaceholderModuleFile
}

// ReadFile returns empty content for any path.
func (VirtualResolver) ReadFile(string) (string, error) {
	return "", nil
}

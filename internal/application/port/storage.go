package port

import "io"

// FileStorage stores uploaded content (catalog datasheets, step
// photos). Save picks a collision-free name under dir and returns the
// relative path it stored the content at; the other methods take that
// relative path back.
type FileStorage interface {
	Save(dir, filename string, content io.Reader) (string, error)
	Read(path string) ([]byte, error)
	Exists(path string) bool
	Delete(path string) error
	FullPath(path string) string
}

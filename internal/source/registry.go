package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Opener turns a statement file into a PageSource.
type Opener interface {
	Open(path string) (PageSource, error)
	Format() string // file extension without the dot, e.g. "pdf"
}

type pdfOpener struct{}

func (pdfOpener) Open(path string) (PageSource, error) { return OpenPDF(path) }
func (pdfOpener) Format() string                      { return "pdf" }

type textOpener struct{}

func (textOpener) Open(path string) (PageSource, error) { return OpenText(path) }
func (textOpener) Format() string                      { return "txt" }

// Registry holds openers keyed by format.
type Registry struct {
	openers map[string]Opener
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name   string
	Path   string
	Size   int64
	Format string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]Opener)}
}

// Register adds an opener. Panics on duplicate format.
func (r *Registry) Register(o Opener) {
	key := strings.ToLower(o.Format())
	if _, ok := r.openers[key]; ok {
		panic("duplicate source format: " + key)
	}
	r.openers[key] = o
}

// Get returns the opener for format, or nil.
func (r *Registry) Get(format string) Opener {
	return r.openers[strings.ToLower(format)]
}

// ForPath returns the opener matching the file extension of path, or nil.
func (r *Registry) ForPath(path string) Opener {
	return r.Get(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Formats returns the registered formats, sorted.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.openers))
	for k := range r.openers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Open opens path with the opener for its extension.
func (r *Registry) Open(path string) (PageSource, error) {
	o := r.ForPath(path)
	if o == nil {
		return nil, fmt.Errorf("unsupported statement format: %s (supported: %s)",
			filepath.Base(path), strings.Join(r.Formats(), ", "))
	}
	return o.Open(path)
}

// DefaultRegistry returns a registry with the PDF and text openers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(pdfOpener{})
	r.Register(textOpener{})
	return r
}

// ImportDir is the subdirectory scanned for statements.
const ImportDir = "import"

// ProcessedDir receives statements once they have been analyzed.
const ProcessedDir = "import/processed"

// Scan returns the statement files in <root>/import/ that have a registered
// format, sorted by name.
func (r *Registry) Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, ImportDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		o := r.ForPath(e.Name())
		if o == nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name:   e.Name(),
			Path:   filepath.Join(dir, e.Name()),
			Size:   info.Size(),
			Format: o.Format(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, ImportDir, fileName)
	dstDir := filepath.Join(root, ProcessedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}

// Package batch turns an input path into a stream of TransXChange
// documents and drains them through a worker pool into the staging
// store.
package batch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Source is one discovered document. Name is the display name used in
// logs; Size is the uncompressed byte size, known without opening the
// document, so oversized files can be skipped before any parsing.
type Source struct {
	Name string
	Size int64
	open func() (io.ReadCloser, error)
}

// Open returns the document content for reading. Archive-backed
// sources reopen their archive, so a Source stays valid after the
// discovery pass that produced it.
func (s Source) Open() (io.ReadCloser, error) { return s.open() }

// Discover expands the input path into the documents it holds: a
// single .xml file, a directory (its .xml files plus the documents in
// its .zip archives), a .zip of documents, or a .zip containing .zips
// of documents.
func Discover(input string) ([]Source, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	switch {
	case info.IsDir():
		return discoverDir(input)
	case hasExt(input, ".xml"):
		return []Source{fileSource(input, info.Size())}, nil
	case hasExt(input, ".zip"):
		return discoverZip(input)
	default:
		return nil, fmt.Errorf("%s is not a .zip, .xml file or directory", input)
	}
}

func discoverDir(dir string) ([]Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var sources []Source
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		switch {
		case hasExt(e.Name(), ".xml"):
			info, err := e.Info()
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			sources = append(sources, fileSource(path, info.Size()))
		case hasExt(e.Name(), ".zip"):
			zipped, err := discoverZip(path)
			if err != nil {
				return nil, err
			}
			sources = append(sources, zipped...)
		}
	}
	return sources, nil
}

func discoverZip(path string) ([]Source, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer zr.Close()

	var sources []Source
	for _, member := range zr.File {
		switch {
		case hasExt(member.Name, ".xml"):
			sources = append(sources, zipMemberSource(path, member.Name, int64(member.UncompressedSize64)))
		case hasExt(member.Name, ".zip"):
			nested, err := discoverNestedZip(path, member)
			if err != nil {
				return nil, err
			}
			sources = append(sources, nested...)
		}
	}
	return sources, nil
}

// discoverNestedZip enumerates the .xml members of a zip that is itself
// a member of another zip. The inner archive is read into memory; zip
// readers need random access and archive members only stream.
func discoverNestedZip(outerPath string, member *zip.File) ([]Source, error) {
	inner, err := readInnerZip(member)
	if err != nil {
		return nil, fmt.Errorf("failed to open nested archive %s in %s: %w", member.Name, outerPath, err)
	}

	var sources []Source
	for _, m := range inner.File {
		if !hasExt(m.Name, ".xml") {
			continue
		}
		sources = append(sources, nestedMemberSource(outerPath, member.Name, m.Name, int64(m.UncompressedSize64)))
	}
	return sources, nil
}

func readInnerZip(member *zip.File) (*zip.Reader, error) {
	rc, err := member.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return zip.NewReader(bytes.NewReader(data), int64(len(data)))
}

func fileSource(path string, size int64) Source {
	return Source{
		Name: filepath.Base(path),
		Size: size,
		open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

func zipMemberSource(zipPath, name string, size int64) Source {
	return Source{
		Name: name,
		Size: size,
		open: func() (io.ReadCloser, error) { return openZipMember(zipPath, name) },
	}
}

func nestedMemberSource(outerPath, innerName, name string, size int64) Source {
	return Source{
		Name: name,
		Size: size,
		open: func() (io.ReadCloser, error) {
			zr, err := zip.OpenReader(outerPath)
			if err != nil {
				return nil, err
			}
			defer zr.Close()

			member := findMember(&zr.Reader, innerName)
			if member == nil {
				return nil, fmt.Errorf("archive member %s disappeared from %s", innerName, outerPath)
			}
			inner, err := readInnerZip(member)
			if err != nil {
				return nil, err
			}
			m := findMember(inner, name)
			if m == nil {
				return nil, fmt.Errorf("archive member %s disappeared from %s", name, innerName)
			}
			// The inner archive lives in memory, so this reader
			// survives the outer archive closing.
			return m.Open()
		},
	}
}

func openZipMember(zipPath, name string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, err
	}
	member := findMember(&zr.Reader, name)
	if member == nil {
		zr.Close()
		return nil, fmt.Errorf("archive member %s disappeared from %s", name, zipPath)
	}
	rc, err := member.Open()
	if err != nil {
		zr.Close()
		return nil, err
	}
	return &memberReadCloser{rc: rc, zr: zr}, nil
}

// memberReadCloser keeps the archive open until the member is consumed.
type memberReadCloser struct {
	rc io.ReadCloser
	zr *zip.ReadCloser
}

func (m *memberReadCloser) Read(p []byte) (int, error) { return m.rc.Read(p) }

func (m *memberReadCloser) Close() error {
	m.rc.Close()
	return m.zr.Close()
}

func findMember(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func hasExt(name, ext string) bool {
	return strings.EqualFold(filepath.Ext(name), ext)
}

package classpath

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// prefixes under which packaged applications keep their own classes
var classPrefixes = []string{"BOOT-INF/classes/", "WEB-INF/classes/"}

// Jar is a jar or zip archive. Jars nested in it, as in packaged
// applications, are read into memory and searched after its own entries.
type Jar struct {
	path  string
	zr    *zip.ReadCloser
	files map[string]*zip.File
}

func OpenJar(path string) (*Jar, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open jar %s: %w", path, err)
	}
	j := &Jar{path: path, zr: zr, files: make(map[string]*zip.File)}

	var nested []*zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		switch filepath.Ext(f.Name) {
		case ".class":
			j.index(f)
		case ".jar":
			nested = append(nested, f)
		}
	}
	for _, f := range nested {
		if err := j.indexNested(f); err != nil {
			log.Warning("skipping nested jar", "jar", path, "entry", f.Name, "error", err)
		}
	}
	return j, nil
}

func (j *Jar) index(f *zip.File) {
	name := strings.TrimSuffix(f.Name, ".class")
	for _, prefix := range classPrefixes {
		name = strings.TrimPrefix(name, prefix)
	}
	if _, ok := j.files[name]; !ok {
		j.files[name] = f
	}
}

func (j *Jar) indexNested(f *zip.File) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	data, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return err
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	for _, nf := range zr.File {
		if !nf.FileInfo().IsDir() && filepath.Ext(nf.Name) == ".class" {
			j.index(nf)
		}
	}
	return nil
}

func (j *Jar) Kind() string { return "jar" }

func (j *Jar) ReadClass(binaryName string) ([]byte, bool, error) {
	f, ok := j.files[binaryName]
	if !ok {
		return nil, false, nil
	}
	rc, err := f.Open()
	if err != nil {
		return nil, false, fmt.Errorf("open %s in %s: %w", f.Name, j.path, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, false, fmt.Errorf("read %s in %s: %w", f.Name, j.path, err)
	}
	return data, true, nil
}

func (j *Jar) List() ([]string, error) {
	names := make([]string, 0, len(j.files))
	for name := range j.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (j *Jar) Close() error {
	return j.zr.Close()
}

package file

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SourceExt is the extension of declaration files.
const SourceExt = ".java"

// SourceRoot returns the directory declaration files live under: a Maven
// layout (pom.xml at the project root) uses src/main/java, anything else
// uses src.
func SourceRoot(projectRoot string) string {
	if _, err := os.Stat(filepath.Join(projectRoot, "pom.xml")); err == nil {
		return filepath.Join(projectRoot, "src", "main", "java")
	}
	return filepath.Join(projectRoot, "src")
}

// PathFor maps a qualified type name to its declaration file under root:
// "com.example.User" becomes root/com/example/User.java.
func PathFor(root, qualified string) string {
	rel := strings.ReplaceAll(qualified, ".", string(filepath.Separator))
	return filepath.Join(root, rel+SourceExt)
}

// SimpleName returns the part of a qualified name after the last dot.
func SimpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// ScanPackage lists the qualified names of every declaration file under the
// package pkg ("com.example.entity") below root, recursively and in lexical
// order. pkg may also be spelled as a slash-separated directory.
func ScanPackage(root, pkg string) ([]string, error) {
	rel := filepath.FromSlash(strings.ReplaceAll(strings.Trim(pkg, "./"), ".", "/"))
	dir := filepath.Join(root, rel)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pkg, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: %s is not a directory", pkg, dir)
	}

	var names []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != SourceExt {
			return nil
		}
		r, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		r = strings.TrimSuffix(filepath.ToSlash(r), SourceExt)
		names = append(names, strings.ReplaceAll(r, "/", "."))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", pkg, err)
	}
	return names, nil
}

package tree

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// Copy recursively copies the whole of src into dst, preserving permission
// bits and symlinks. Directories are created as the walk reaches them. The
// destination root always gets 0755: scratch roots are 0700 by construction.
// Paths below the root are passed to both filesystems relative to it.
func Copy(src, dst billy.Filesystem) error {
	entries, err := src.ReadDir("/")
	if err != nil {
		return fmt.Errorf("reading source root: %w", err)
	}
	if err := dst.MkdirAll("/", 0o755); err != nil {
		return fmt.Errorf("creating destination root: %w", err)
	}
	return copyEntries(src, dst, "", entries)
}

// CopyDir copies the directory at srcPath into dstPath on the local disk.
// Symlink targets are written exactly as read, absolute ones included.
func CopyDir(srcPath, dstPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", srcPath)
	}
	return Copy(Disk(srcPath), Disk(dstPath))
}

// Disk returns a filesystem rooted at dir that reads and writes link targets
// verbatim, where a chrooted osfs rebases absolute ones under dir.
func Disk(dir string) billy.Filesystem {
	return osfs.New(dir, osfs.WithBoundOS())
}

func copyDir(src, dst billy.Filesystem, dir string) error {
	entries, err := src.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	return copyEntries(src, dst, dir, entries)
}

func copyEntries(src, dst billy.Filesystem, dir string, entries []os.FileInfo) error {
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())

		// ReadDir may follow links; Lstat reports the entry itself.
		info, err := src.Lstat(p)
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", p, err)
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			if err := copySymlink(src, dst, p); err != nil {
				return err
			}
		case info.IsDir():
			if err := dst.MkdirAll(p, info.Mode().Perm()); err != nil {
				return fmt.Errorf("creating %s: %w", p, err)
			}
			if err := copyDir(src, dst, p); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := copyFile(src, dst, p, info.Mode().Perm()); err != nil {
				return err
			}
		}
		// Sockets, devices and pipes are not template content.
	}

	return nil
}

// copyFile copies a single file, preserving permissions.
func copyFile(src, dst billy.Filesystem, p string, perm os.FileMode) error {
	in, err := src.Open(p)
	if err != nil {
		return fmt.Errorf("opening %s: %w", p, err)
	}
	defer in.Close()

	out, err := dst.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("creating %s: %w", p, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", p, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", p, err)
	}
	return nil
}

func copySymlink(src, dst billy.Filesystem, p string) error {
	link, err := src.Readlink(p)
	if err != nil {
		return fmt.Errorf("reading link %s: %w", p, err)
	}
	if err := dst.Symlink(link, p); err != nil {
		return fmt.Errorf("creating link %s: %w", p, err)
	}
	return nil
}

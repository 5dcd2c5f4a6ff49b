// Package mutate implements validated write operations: create, rename,
// copy, move and delete. Every operation consults the permission gate
// before touching disk, and delete is soft by routing through the recycle
// bin rather than unlinking.
package mutate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/recycle"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// Ops performs validated filesystem mutations.
type Ops struct {
	gate *permissions.Gate
	bin  *recycle.Bin
	log  *logging.Logger
}

// New creates a mutation layer. bin may be nil, in which case Delete fails.
func New(gate *permissions.Gate, bin *recycle.Bin, log *logging.Logger) *Ops {
	if log == nil {
		log = logging.NewNop()
	}
	return &Ops{gate: gate, bin: bin, log: log.Component("mutate")}
}

// CreateFile creates an empty file named name under dir. An existing node
// at the target is ErrAlreadyExists; creation never truncates.
func (o *Ops) CreateFile(ctx context.Context, dir, name string) (entry.Entry, error) {
	path, err := o.target(ctx, dir, name)
	if err != nil {
		return entry.Entry{}, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return entry.Entry{}, errs.ClassifyPath(path, err)
	}
	if err := f.Close(); err != nil {
		return entry.Entry{}, errs.ClassifyPath(path, err)
	}

	o.log.Info("created file", zap.String("path", path))
	return o.stat(path)
}

// CreateDirectory creates a directory named name under dir.
func (o *Ops) CreateDirectory(ctx context.Context, dir, name string) (entry.Entry, error) {
	path, err := o.target(ctx, dir, name)
	if err != nil {
		return entry.Entry{}, err
	}

	if err := os.Mkdir(path, 0o755); err != nil {
		return entry.Entry{}, errs.ClassifyPath(path, err)
	}

	o.log.Info("created directory", zap.String("path", path))
	return o.stat(path)
}

// Rename gives the node at path a new name within its directory. Renames
// never move across directories; that is Move's job.
func (o *Ops) Rename(ctx context.Context, path, newName string) (entry.Entry, error) {
	if err := ctx.Err(); err != nil {
		return entry.Entry{}, err
	}
	if err := paths.ValidateName(newName); err != nil {
		return entry.Entry{}, err
	}
	if err := o.gate.EnsureAccess(path); err != nil {
		return entry.Entry{}, err
	}

	if _, err := os.Lstat(path); err != nil {
		return entry.Entry{}, errs.ClassifyPath(path, err)
	}

	dest := filepath.Join(filepath.Dir(path), newName)
	if dest == path {
		return o.stat(path)
	}
	if _, err := os.Lstat(dest); err == nil {
		return entry.Entry{}, fmt.Errorf("%s: %w", dest, errs.ErrAlreadyExists)
	} else if !os.IsNotExist(err) {
		return entry.Entry{}, errs.ClassifyPath(dest, err)
	}

	if err := os.Rename(path, dest); err != nil {
		return entry.Entry{}, errs.ClassifyPath(path, err)
	}

	o.log.Info("renamed", zap.String("from", path), zap.String("to", dest))
	return o.stat(dest)
}

// Copy duplicates src at dst. Directories copy recursively. Without
// overwrite an existing dst is ErrAlreadyExists.
func (o *Ops) Copy(ctx context.Context, src, dst string, overwrite bool) (entry.Entry, error) {
	info, err := o.checkTransfer(ctx, src, dst, overwrite)
	if err != nil {
		return entry.Entry{}, err
	}

	if info.IsDir() {
		err = o.copyDir(ctx, src, dst)
	} else {
		err = copyFile(src, dst, info.Mode())
	}
	if err != nil {
		return entry.Entry{}, err
	}

	o.log.Info("copied", zap.String("from", src), zap.String("to", dst))
	return o.stat(dst)
}

// Move relocates src to dst, falling back to copy-then-delete when the
// rename crosses filesystems. Without overwrite an existing dst is
// ErrAlreadyExists.
func (o *Ops) Move(ctx context.Context, src, dst string, overwrite bool) (entry.Entry, error) {
	info, err := o.checkTransfer(ctx, src, dst, overwrite)
	if err != nil {
		return entry.Entry{}, err
	}

	err = os.Rename(src, dst)
	if isCrossDevice(err) {
		if info.IsDir() {
			err = o.copyDir(ctx, src, dst)
		} else {
			err = copyFile(src, dst, info.Mode())
		}
		if err == nil {
			err = os.RemoveAll(src)
			if err != nil {
				err = errs.ClassifyPath(src, err)
			}
		}
	} else if err != nil {
		err = errs.ClassifyPath(src, err)
	}
	if err != nil {
		return entry.Entry{}, err
	}

	o.log.Info("moved", zap.String("from", src), zap.String("to", dst))
	return o.stat(dst)
}

// Delete soft-deletes the file at path through the recycle bin.
func (o *Ops) Delete(ctx context.Context, path string) (recycle.Item, error) {
	if o.bin == nil {
		return recycle.Item{}, fmt.Errorf("delete %s: no recycle bin configured: %w", path, errs.ErrIO)
	}
	return o.bin.MoveToRecycleBin(ctx, path)
}

// target validates and gates a create destination, returning the full path.
func (o *Ops) target(ctx context.Context, dir, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := paths.ValidateName(name); err != nil {
		return "", err
	}
	if err := o.gate.EnsureAccess(dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// checkTransfer validates a copy/move pair and stats the source.
func (o *Ops) checkTransfer(ctx context.Context, src, dst string, overwrite bool) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.gate.EnsureAccess(src); err != nil {
		return nil, err
	}
	if err := o.gate.EnsureAccess(dst); err != nil {
		return nil, err
	}

	info, err := os.Lstat(src)
	if err != nil {
		return nil, errs.ClassifyPath(src, err)
	}
	if info.IsDir() && paths.Within(src, dst) {
		return nil, fmt.Errorf("%s: destination inside source: %w", dst, errs.ErrIO)
	}

	if _, err := os.Lstat(dst); err == nil {
		if !overwrite {
			return nil, fmt.Errorf("%s: %w", dst, errs.ErrAlreadyExists)
		}
		if err := os.RemoveAll(dst); err != nil {
			return nil, errs.ClassifyPath(dst, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, errs.ClassifyPath(dst, err)
	}
	return info, nil
}

func (o *Ops) copyDir(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			return errs.ClassifyPath(p, err)
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return errs.ClassifyPath(p, err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return errs.ClassifyPath(p, err)
		}
		if d.IsDir() {
			if err := os.MkdirAll(target, info.Mode().Perm()); err != nil {
				return errs.ClassifyPath(target, err)
			}
			return nil
		}
		return copyFile(p, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return errs.ClassifyPath(src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode.Perm())
	if err != nil {
		return errs.ClassifyPath(dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return errs.ClassifyPath(dst, err)
	}
	if err := out.Close(); err != nil {
		return errs.ClassifyPath(dst, err)
	}
	return nil
}

func isCrossDevice(err error) bool {
	if err == nil {
		return false
	}
	var linkErr *os.LinkError
	return errors.As(err, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV)
}

// stat builds the boundary entry for a freshly mutated path.
func (o *Ops) stat(path string) (entry.Entry, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return entry.Entry{}, errs.ClassifyPath(path, err)
	}
	return entry.FromInfo(path, info), nil
}

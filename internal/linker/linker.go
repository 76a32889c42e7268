// Package linker drives the platform linker as an external process,
// turning a set of object files and libraries into an executable, shared
// library, or static library. The error/warning accumulation and
// dry-run mode are adapted from the teacher's dictionary linker; what
// changed is the target of linking, from dictionary references resolved
// in memory to object code resolved by an external tool.
package linker

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/hlang-toolchain/hlang/internal/errors"
)

// LinkType selects the kind of artifact the platform linker should
// produce.
type LinkType string

const (
	ExecutableLink    LinkType = "executable"
	SharedLibraryLink LinkType = "shared_library"
	StaticLibraryLink LinkType = "static_library"
)

// Options describes one link invocation.
type Options struct {
	ObjectFiles        []string
	LibrarySearchPaths []string
	Libraries          []string
	EntryPoint         string
	Type               LinkType
	OutputPath         string
	Debug              bool
	DryRun             bool
}

// Result reports the command a link ran (or, in dry-run mode, would have
// run) and, for a real run, its captured output.
type Result struct {
	Command []string
	Stdout  string
	Stderr  string
}

// Linker invokes program (the platform C toolchain driver, e.g. "cc" or
// "clang") as an external process to do the actual object-format work
// (PE/COFF or ELF), which is out of scope for this package to implement
// directly.
type Linker struct {
	program  string
	errors   []error
	warnings []string
}

// New constructs a Linker that shells out to program for every Link
// call.
func New(program string) *Linker {
	return &Linker{program: program}
}

// Link runs the platform linker over opts. In dry-run mode the external
// process is never started; Result.Command still reports what would have
// run, so a caller can preview or log it.
func (l *Linker) Link(opts Options) (Result, error) {
	l.errors = nil
	l.warnings = nil

	if len(opts.ObjectFiles) == 0 {
		err := fmt.Errorf("no object files supplied")
		l.errors = append(l.errors, err)
		return Result{}, err
	}
	if opts.OutputPath == "" {
		err := fmt.Errorf("no output path supplied")
		l.errors = append(l.errors, err)
		return Result{}, err
	}

	args := l.buildArgs(opts)
	command := append([]string{l.program}, args...)

	if opts.DryRun {
		return Result{Command: command}, nil
	}

	cmd := exec.Command(l.program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		linkErr := errors.NewLinkerError(err.Error(), stderr.String())
		l.errors = append(l.errors, linkErr)
		return Result{Command: command, Stdout: stdout.String(), Stderr: stderr.String()}, linkErr
	}

	if stderr.Len() > 0 {
		l.warnings = append(l.warnings, stderr.String())
	}

	return Result{Command: command, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// buildArgs translates Options into the platform-driver argument list.
// Flags chosen match what a cc-compatible front end (gcc/clang/cc)
// accepts, since that's the most portable way to reach the platform
// linker without depending on its object format directly.
func (l *Linker) buildArgs(opts Options) []string {
	var args []string

	switch opts.Type {
	case SharedLibraryLink:
		args = append(args, "-shared")
	case StaticLibraryLink:
		args = append(args, "-static")
	case ExecutableLink:
		// no extra flag; this is the default driver mode
	}

	if opts.Debug {
		args = append(args, "-g")
	}

	if opts.EntryPoint != "" {
		args = append(args, "-Wl,-e,"+opts.EntryPoint)
	}

	for _, dir := range opts.LibrarySearchPaths {
		args = append(args, "-L"+dir)
	}

	args = append(args, opts.ObjectFiles...)

	for _, lib := range opts.Libraries {
		args = append(args, "-l"+lib)
	}

	args = append(args, "-o", opts.OutputPath)
	return args
}

// GetErrors returns the errors recorded by the most recent Link call;
// each Link call clears the errors of the one before it.
func (l *Linker) GetErrors() []error {
	return l.errors
}

// GetWarnings returns non-fatal diagnostics (currently: anything the
// linker wrote to stderr on an otherwise-successful run).
func (l *Linker) GetWarnings() []string {
	return l.warnings
}

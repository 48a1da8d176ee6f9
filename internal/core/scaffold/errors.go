package scaffold

import "fmt"

// EmitError wraps a failure of the Emitter. Files emitted before the failure
// are left in place.
type EmitError struct {
	Path string
	Err  error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emitting %s: %v", e.Path, e.Err)
}

func (e *EmitError) Unwrap() error { return e.Err }

// InstallError wraps a failure of the Installer.
type InstallError struct {
	Dev bool
	Err error
}

func (e *InstallError) Error() string {
	kind := "dependencies"
	if e.Dev {
		kind = "devDependencies"
	}
	return fmt.Sprintf("installing %s: %v", kind, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

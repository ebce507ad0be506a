package fontatlas

import (
	"errors"
	"fmt"
)

// SuppressionScope defers texture uploads until released. Scopes nest; the
// release of the outermost one flushes.
type SuppressionScope struct {
	atlas    *Atlas
	released bool
}

// BeginSuppression opens a scope during which Flush does nothing.
//
//	scope, err := a.BeginSuppression()
//	if err != nil {
//	    return err
//	}
//	defer scope.Release()
func (a *Atlas) BeginSuppression() (*SuppressionScope, error) {
	if a.disposed {
		return nil, disposedError("BeginSuppression")
	}
	a.suppress++
	return &SuppressionScope{atlas: a}, nil
}

// Release closes the scope. Releasing twice, releasing a nil scope and
// releasing after the atlas was closed do nothing.
func (s *SuppressionScope) Release() error {
	if s == nil || s.released {
		return nil
	}
	s.released = true
	a := s.atlas
	if a.disposed {
		return nil
	}
	a.suppress--
	if a.suppress > 0 {
		return nil
	}
	return a.Flush()
}

// Suppressed reports whether a suppression scope is open.
func (a *Atlas) Suppressed() bool {
	return a.suppress > 0
}

// MarkDirty schedules plane for upload on the next Flush.
func (a *Atlas) MarkDirty(plane int) error {
	if a.disposed {
		return disposedError("MarkDirty")
	}
	if plane < 0 || plane >= len(a.planes) {
		return &ArgumentError{Arg: "plane", Reason: fmt.Sprintf("no texture slot %d", plane)}
	}
	a.planes[plane].dirty = true
	return nil
}

// Flush uploads every dirty plane. It does nothing while suppressed.
// Planes whose upload fails stay dirty and are retried by the next Flush.
func (a *Atlas) Flush() error {
	if a.disposed {
		return disposedError("Flush")
	}
	if a.suppress > 0 {
		return nil
	}
	var errs []error
	uploaded := 0
	for i, p := range a.planes {
		if !p.dirty {
			continue
		}
		if err := a.device.WriteTexture(p.tex, p.pix); err != nil {
			errs = append(errs, &UploadError{Op: "upload", Texture: fmt.Sprintf("plane %d", i), Err: err})
			continue
		}
		p.dirty = false
		uploaded++
	}
	if uploaded > 0 {
		Logger().Debug("fontatlas: planes uploaded", "count", uploaded)
	}
	return errors.Join(errs...)
}

// scoped runs fn inside a suppression scope and flushes afterwards.
func (a *Atlas) scoped(op string, fn func() error) error {
	if a.disposed {
		return disposedError(op)
	}
	scope, err := a.BeginSuppression()
	if err != nil {
		return err
	}
	err = fn()
	return errors.Join(err, scope.Release())
}

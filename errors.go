package docdex

import (
	"errors"
	"fmt"

	"github.com/hupe1980/docdex/blobstore"
	"github.com/hupe1980/docdex/xref"
)

var (
	// ErrNotFound is returned when a definition or published blob is not found.
	ErrNotFound = errors.New("not found")

	// ErrBuilderFrozen is returned when a builder is used after Freeze.
	ErrBuilderFrozen = errors.New("builder frozen")

	// ErrNoSnapshot is returned when no snapshot has been published.
	ErrNoSnapshot = errors.New("no published snapshot")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, xref.ErrFrozen) {
		return fmt.Errorf("%w: %w", ErrBuilderFrozen, err)
	}

	// Not found unification.
	if errors.Is(err, xref.ErrNotFound) || errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}

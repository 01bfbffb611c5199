// Package photos stores submitted portrait images and turns stored
// references into URLs a card renderer can display.
package photos

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/carnet/internal/common"
)

// Storage keeps photo blobs and resolves references to them.
type Storage interface {
	// Put stores data and returns an opaque reference to it.
	Put(ctx context.Context, data []byte, contentType string) (string, error)
	// Resolve returns a displayable URL for ref. http(s) URLs pass through.
	Resolve(ctx context.Context, ref string) (string, error)
}

func isHTTPURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func unsupportedRef(ref string) error {
	return fmt.Errorf("unsupported photo reference %q: %w", ref, common.ErrorInvalidInput)
}

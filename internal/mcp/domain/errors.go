package domain

import (
	"errors"
	"fmt"

	apperrors "github.com/thedeuce2/Game-Master/internal/errors"
	"github.com/thedeuce2/Game-Master/internal/storage"
)

// toolError shapes a service failure for the MCP client. Coded domain
// errors surface their code so the narrator can react to the exact
// rejection; anything uncoded is masked to keep internals out of the
// conversation.
func toolError(op string, err error) error {
	code := apperrors.GetCode(err)
	if code == apperrors.CodeUnknown && errors.Is(err, storage.ErrNotFound) {
		code = apperrors.CodeNotFound
	}
	if code == apperrors.CodeUnknown {
		return fmt.Errorf("%s: an unexpected error occurred", op)
	}
	return fmt.Errorf("%s: %s: %w", op, code, err)
}

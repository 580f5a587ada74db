package federation

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	err := fmt.Errorf("handling update: %w", Precondition("object %s does not exist", "https://remote.example/notes/1"))
	if !errors.Is(err, ErrPrecondition) {
		t.Error("expected precondition error to match ErrPrecondition")
	}

	var pe *PreconditionError
	if !errors.As(err, &pe) || pe.Msg != "object https://remote.example/notes/1 does not exist" {
		t.Errorf("unexpected precondition error: %v", err)
	}

	var ve *ValidationError
	if errors.As(err, &ve) {
		t.Error("precondition error should not be a validation error")
	}

	if !errors.As(Invalid("object must be of type object"), &ve) {
		t.Error("expected a validation error")
	}
}

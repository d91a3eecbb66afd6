package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCarriesKind(t *testing.T) {
	err := New(KindValidation, "observation_start %q is not YYYY-MM-DD", "2020/01/01")
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "VALIDATION")
	assert.Contains(t, err.Error(), "2020/01/01")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Wrap(KindTransport, cause, "fetching series GDP")
	assert.Equal(t, KindTransport, KindOf(err))
	assert.ErrorIs(t, err, cause)
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(KindTransport, nil, "noop"))
}

func TestKindOfUnknownErrorDefaultsToTransport(t *testing.T) {
	assert.Equal(t, KindTransport, KindOf(errors.New("boom")))
}

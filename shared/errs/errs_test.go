package errs

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := errors.New("connection refused")
	err := Transport("getblockhash", base)
	wrapped := errors.Wrapf(err, "height %d", 12)

	assert.Equal(t, KindTransport, KindOf(wrapped))
	assert.True(t, IsRetryable(wrapped))
	assert.True(t, errors.Is(wrapped, base))
	assert.Contains(t, wrapped.Error(), "TransportError: getblockhash: connection refused")
}

func TestOnlyTransportIsRetryable(t *testing.T) {
	for _, k := range []Kind{KindRPC, KindClassification, KindStore, KindUnknown} {
		err := New(k, "op", errors.New("x"))
		if k == KindUnknown {
			err = errors.New("x")
		}

		assert.False(t, IsRetryable(err), k.String())
	}
}

func TestNewNil(t *testing.T) {
	require.NoError(t, New(KindStore, "commit", nil))
	assert.Equal(t, KindUnknown, KindOf(nil))
	assert.False(t, Is(nil, KindStore))
}

func TestNewf(t *testing.T) {
	err := Newf(KindClassification, "classify", "unknown script type %s", "witness_v9")
	assert.True(t, Is(err, KindClassification))
	assert.Equal(t, "ClassificationError: classify: unknown script type witness_v9", err.Error())
}

package helpers

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestFoldErrors(t *testing.T) {
	t.Parallel()

	assert.NoError(t, FoldErrors(nil))
	assert.NoError(t, FoldErrors([]error{nil, nil}))
	e := FoldErrors([]error{errors.Errorf("first"), nil, errors.Errorf("second")})
	assert.Equal(t, "first\nsecond", e.Error())
}

package mirror

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Err(t *testing.T) {
	r := &Report{}
	r.record("a", OutcomeMirrored, nil)
	r.record("b", OutcomeAlreadyMirrored, nil)
	assert.NoError(t, r.Err())

	r.record("d", OutcomeFailed, errors.New("conflict"))
	r.record("c", OutcomeFailed, errors.New("server error"))

	err := r.Err()
	var partial *PartialFailureError
	assert.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"a"}, partial.Succeeded)
	assert.Equal(t, []string{"c", "d"}, partial.GetFailedOperations())
	assert.Equal(t, "mirror run completed with failures: 1 repositories mirrored, 2 failed", err.Error())
}

func TestPartialFailureError_DefaultMessage(t *testing.T) {
	err := &PartialFailureError{
		Succeeded: []string{"a", "b"},
		Failed:    map[string]error{"c": errors.New("x")},
	}
	assert.Equal(t, "partial failure: 2 succeeded, 1 failed", err.Error())
}

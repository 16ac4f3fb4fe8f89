//go:build unit

package errs_test

import (
	"errors"
	"testing"

	"groomdesk/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkDiscrimination(t *testing.T) {
	cause := errs.New("service item lookup failed")
	marked := errs.Wrap(errs.Mark(cause, errs.ErrServiceItemNotFound), "get slots")

	// Marks ride outside the cause chain, so the standard library cannot
	// see them. Discrimination has to go through errs.Is.
	assert.False(t, errors.Is(marked, errs.ErrServiceItemNotFound))
	require.True(t, errs.Is(marked, errs.ErrServiceItemNotFound))

	// The cause chain itself stays visible both ways.
	require.True(t, errors.Is(marked, cause))
	require.True(t, errs.Is(marked, cause))
}

func TestMarkNilCause(t *testing.T) {
	err := errs.Mark(nil, errs.ErrLocationNotFound)
	require.True(t, errs.Is(err, errs.ErrLocationNotFound))
}

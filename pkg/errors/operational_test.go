package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRejected = errors.New("node not found")

func TestNewOperationalError_NilCause(t *testing.T) {
	assert.Nil(t, NewOperationalError("setNodeLabel", "n1", nil))
}

func TestOperationalError_Format(t *testing.T) {
	err := NewOperationalError("setNodeLabel", "n1", errRejected)
	require.NotNil(t, err)

	assert.Equal(t, "setNodeLabel: target=n1: node not found", err.Message())
	assert.True(t, strings.HasPrefix(err.Error(), "["))
	assert.True(t, strings.HasSuffix(err.Error(), "] setNodeLabel: target=n1: node not found"))

	canvasWide := NewOperationalError("setPipelineFlow", "", errRejected)
	assert.Equal(t, "setPipelineFlow: node not found", canvasWide.Message())
}

func TestOperationalError_Unwrap(t *testing.T) {
	var err error = NewOperationalError("setNodeLabel", "n1", errRejected)
	wrapped := fmt.Errorf("dispatch: %w", err)

	assert.ErrorIs(t, wrapped, errRejected)

	var opErr *OperationalError
	require.ErrorAs(t, wrapped, &opErr)
	assert.Equal(t, "n1", opErr.Target)
}

func TestDescribe(t *testing.T) {
	op := NewOperationalError("zoomToRevealLink", "l1", errRejected)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", errRejected, "node not found"},
		{"operational", op, "zoomToRevealLink: target=l1: node not found"},
		{"wrapped", fmt.Errorf("panel: %w", op), "panel: zoomToRevealLink: target=l1: node not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}

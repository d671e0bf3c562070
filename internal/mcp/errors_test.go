package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/hygrotrack/internal/domain/record"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("disk full")))

	cases := []struct {
		err  error
		code string
	}{
		{record.ErrRecordNotFound, "RECORD_NOT_FOUND"},
		{fmt.Errorf("%w: operator required", record.ErrInvalidInput), "INVALID_INPUT"},
		{record.ErrWrongRecordType, "WRONG_RECORD_TYPE"},
		{fmt.Errorf("%w: status is Resolved", record.ErrFollowUpNotRequired), "FOLLOW_UP_NOT_REQUIRED"},
		{record.ErrConflict, "CONFLICT"},
	}
	for _, tc := range cases {
		apiErr := MapError(tc.err)
		require.NotNil(t, apiErr, "no mapping for %v", tc.err)
		require.Equal(t, tc.code, apiErr.Code)
		require.ErrorIs(t, apiErr, tc.err)
	}
}

func TestToolError_PassesThroughUnknown(t *testing.T) {
	err := errors.New("disk full")
	require.Equal(t, err, toolError(err))

	var apiErr *APIError
	require.ErrorAs(t, toolError(record.ErrConflict), &apiErr)
	require.Contains(t, apiErr.Error(), "Reload with get_record")
}

package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKeyList(t *testing.T) {
	assert.Equal(t, []string{"id-a", "vote-b"}, ParseKeyList("  id-a \n\n\tvote-b\n  \n"))
	assert.Empty(t, ParseKeyList(" \n "))
}

func TestConvertKeysToVote(t *testing.T) {
	conv, err := ConvertKeys([]string{"id-a", "id-b", "vote-c", "nope"}, fixture())
	require.NoError(t, err)

	assert.Equal(t, ConvertToVote, conv.Direction)
	require.Len(t, conv.Results, 4)

	assert.Equal(t, "vote-a", conv.Results[0].ConvertedKey)
	assert.Equal(t, "vote-b", conv.Results[1].ConvertedKey)
	// already a vote key: passes through
	assert.Equal(t, "vote-c", conv.Results[2].ConvertedKey)
	assert.False(t, conv.Results[2].IsError)

	assert.True(t, conv.Results[3].IsError)
	assert.Equal(t, "nope", conv.Results[3].OriginalKey)
	assert.NotEmpty(t, conv.Results[3].ErrorMessage)

	assert.Equal(t, 3, conv.Converted)
	assert.Equal(t, 1, conv.Failed)
	assert.Equal(t, "vote-a\nvote-b\nvote-c", conv.Output())
}

func TestConvertKeysToIdentity(t *testing.T) {
	conv, err := ConvertKeys([]string{"vote-a", "vote-d", "id-b"}, fixture())
	require.NoError(t, err)

	assert.Equal(t, ConvertToIdentity, conv.Direction)
	assert.Equal(t, "id-a\nid-d\nid-b", conv.Output())
	assert.Equal(t, 0, conv.Failed)
}

func TestConvertKeysErrors(t *testing.T) {
	_, err := ConvertKeys(nil, fixture())
	assert.True(t, errors.Is(err, ErrNoKeys))

	_, err = ConvertKeys([]string{"id-a", "vote-b"}, fixture())
	assert.True(t, errors.Is(err, ErrAmbiguousDirection))
}

func TestConvertKeysAllUnknown(t *testing.T) {
	conv, err := ConvertKeys([]string{"x", "y"}, fixture())
	require.NoError(t, err)
	assert.Equal(t, 2, conv.Failed)
	assert.Empty(t, conv.Output())
}

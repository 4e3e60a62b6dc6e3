package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/go-tokenizers/api"
)

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"101", "102"})
	require.NoError(t, err)
	assert.Equal(t, []int64{101, 102}, ids)
}

func TestParseIDsAcceptsJSONBrackets(t *testing.T) {
	ids, err := parseIDs([]string{"[2,", "5,", "3]"})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 5, 3}, ids)
}

func TestParseIDsRejectsGarbage(t *testing.T) {
	_, err := parseIDs([]string{"five"})
	require.Error(t, err)
	assert.True(t, api.IsValueError(err))
}

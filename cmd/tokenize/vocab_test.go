package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/go-tokenizers/api"
)

func TestLookupArgsByToken(t *testing.T) {
	tok := newTestTokenizer(t)

	lookups, err := lookupArgs(tok, []string{"hello", "zzz", "[CLS]"}, false)
	require.NoError(t, err)
	assert.Equal(t, []vocabLookup{
		{Token: "hello", ID: 5, Known: true, Special: false},
		{Token: "zzz", ID: 1, Known: false, Special: false},
		{Token: "[CLS]", ID: 2, Known: true, Special: true},
	}, lookups)
}

func TestLookupArgsByID(t *testing.T) {
	tok := newTestTokenizer(t)

	lookups, err := lookupArgs(tok, []string{"5", "1", "99"}, true)
	require.NoError(t, err)
	assert.Equal(t, []vocabLookup{
		{Token: "hello", ID: 5, Known: true, Special: false},
		{Token: "[UNK]", ID: 1, Known: true, Special: true},
		{Token: "[UNK]", ID: 99, Known: false, Special: false},
	}, lookups)
}

func TestLookupArgsRejectsBadID(t *testing.T) {
	tok := newTestTokenizer(t)

	_, err := lookupArgs(tok, []string{"five"}, true)
	require.Error(t, err)
	assert.True(t, api.IsValueError(err))
}

package dgo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocx/dgo/snowflake"
)

func TestNewRequiresToken(t *testing.T) {
	_, err := New(Options{RESTBaseURL: "https://discord.com/api/v6"})
	assert.Error(t, err)
}

func TestNewWiresResourceHandles(t *testing.T) {
	s, err := New(Options{
		Token:       "tok",
		RESTBaseURL: "https://discord.com/api/v6",
	})
	require.NoError(t, err)
	require.NotNil(t, s.REST)
	require.NotNil(t, s.Gateway)
	require.NotNil(t, s.State)

	ch := s.Channel(snowflake.ID(1))
	assert.NotNil(t, ch)
	g := s.Guild(snowflake.ID(2))
	assert.NotNil(t, g)
}

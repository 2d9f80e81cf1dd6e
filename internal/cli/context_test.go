package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	useMemFs(t)

	assert.Empty(t, GetCurrentContext())
	require.NoError(t, ClearContext(), "clearing without a context is fine")

	require.NoError(t, SetContext("p1"))
	assert.Equal(t, "p1", GetCurrentContext())

	require.NoError(t, ClearContext())
	assert.Empty(t, GetCurrentContext())
}

func TestSessionProjectFallsBackToContext(t *testing.T) {
	useMemFs(t)
	sess := sessionWith(cliProject("p1", "Affiche"), cliProject("p2", "Logo"))

	_, err := sess.project("")
	assert.ErrorContains(t, err, "no context set")

	require.NoError(t, SetContext("p2"))
	p, err := sess.project("")
	require.NoError(t, err)
	assert.Equal(t, "Logo", p.Name)

	p, err = sess.project("affiche")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestSessionUpdateReplacesInPlace(t *testing.T) {
	sess := sessionWith(cliProject("p1", "Affiche"), cliProject("p2", "Logo"))

	p := sess.state.Projects[1]
	p.IsUrgent = true
	require.NoError(t, sess.update(p))
	assert.True(t, sess.state.Projects[1].IsUrgent)
	assert.False(t, sess.before.Projects[1].IsUrgent)

	p.ID = "missing"
	assert.Error(t, sess.update(p))
}

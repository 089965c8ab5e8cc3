package server

import (
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwiater/evalview/internal/results"
)

func TestSessionStoreLogsEviction(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	st, err := newSessionStore(log, 1, newMetrics())
	require.NoError(t, err)

	first, err := st.Add("a.json", &results.Document{})
	require.NoError(t, err)
	_, err = st.Add("b.json", &results.Document{})
	require.NoError(t, err)

	_, ok := st.Get(first.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, st.Len())

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Session evicted", entry.Message)
	assert.Equal(t, first.ID, entry.Data["session"])
	assert.Equal(t, "a.json", entry.Data["name"])
	assert.Contains(t, entry.Data, "age")
}

func TestSessionStoreRejectsMalformedID(t *testing.T) {
	st, err := newSessionStore(testLogger(), 4, newMetrics())
	require.NoError(t, err)

	_, err = st.Add("a.json", nil)
	assert.Error(t, err)

	_, ok := st.Get("not-a-uuid")
	assert.False(t, ok)
}

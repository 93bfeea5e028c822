package app

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
)

type snapStub store.Snapshot

func (s snapStub) Snapshot() store.Snapshot { return store.Snapshot(s) }

type notesStub []domain.Notification

func (n notesStub) Active() []domain.Notification { return n }

func TestRegisterStoreMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	snap := snapStub{
		State:     store.StateDegraded,
		Connected: false,
		News:      make([]domain.NewsData, 2),
	}
	registerStoreMetrics(reg, snap, notesStub{{Title: "Connection lost", Persistent: true}})

	expected := `
# HELP mediareport_store_records Records held in memory per kind.
# TYPE mediareport_store_records gauge
mediareport_store_records{kind="news_data"} 2
mediareport_store_records{kind="platform_data"} 0
mediareport_store_records{kind="rpa_data"} 0
mediareport_store_records{kind="website_data"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mediareport_store_records"))

	expected = `
# HELP mediareport_store_state 1 for the current store state, 0 otherwise.
# TYPE mediareport_store_state gauge
mediareport_store_state{state="degraded"} 1
mediareport_store_state{state="loading"} 0
mediareport_store_state{state="ready"} 0
mediareport_store_state{state="uninitialized"} 0
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "mediareport_store_state"))

	n, err := testutil.GatherAndCount(reg, "mediareport_store_connected", "mediareport_notifications_active")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

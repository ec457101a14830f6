package mygram_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mygramdb/mygram-go/pkg/mygram"
	"github.com/mygramdb/mygram-go/pkg/query"
	pkgtesting "github.com/mygramdb/mygram-go/pkg/testing"
)

func newTestClient(t *testing.T) (*mygram.Client, *pkgtesting.MygramServer) {
	t.Helper()

	server := pkgtesting.NewMygramServer(t)
	client := mygram.New(mygram.Config{
		Host:    server.Host(),
		Port:    server.Port(),
		Timeout: 2 * time.Second,
	})
	require.NoError(t, client.Connect(context.Background()))
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client, server
}

func TestClient_Search_SimpleExpression(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("SEARCH items golang AND tutorial NOT legacy", "OK RESULTS 3 101 102 103")

	result, err := client.Search(context.Background(), "items", "+golang +tutorial -legacy")
	require.NoError(t, err)

	assert.Equal(t, uint64(3), result.Total)
	assert.Equal(t, []string{"101", "102", "103"}, result.IDs)
	assert.Nil(t, result.Debug)
}

func TestClient_Search_ComplexExpressionTravelsVerbatim(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond(`SEARCH items "python OR ruby"`, "OK RESULTS 0")

	result, err := client.Search(context.Background(), "items", "python OR ruby")
	require.NoError(t, err)

	assert.Equal(t, uint64(0), result.Total)
	assert.Empty(t, result.IDs)
	assert.Equal(t, `SEARCH items "python OR ruby"`, server.LastRequest())
}

func TestClient_Search_PhraseMainTermIsQuoted(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondFunc(func(string) string { return "OK RESULTS 0" })

	_, err := client.Search(context.Background(), "items", `+"exact phrase" extra`)
	require.NoError(t, err)

	assert.Equal(t, `SEARCH items "exact phrase" AND extra`, server.LastRequest())
}

func TestClient_Search_FullCommandShape(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondFunc(func(string) string { return "OK RESULTS 0" })

	_, err := client.Search(context.Background(), "books", "+go -legacy web",
		mygram.WithFilter("genre_id", "5"),
		mygram.WithFilter("lang", "en"),
		mygram.WithSort("updated_at", true),
		mygram.WithOffset(20),
		mygram.WithLimit(10),
	)
	require.NoError(t, err)

	assert.Equal(t,
		"SEARCH books go AND web NOT legacy FILTER genre_id = 5 FILTER lang = en SORT updated_at DESC LIMIT 20,10",
		server.LastRequest(),
	)
}

func TestClient_Search_LimitWithoutOffset(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondFunc(func(string) string { return "OK RESULTS 0" })

	_, err := client.Search(context.Background(), "books", "go", mygram.WithLimit(25))
	require.NoError(t, err)

	assert.Equal(t, "SEARCH books go LIMIT 25", server.LastRequest())
}

func TestClient_Search_AscendingWithoutColumnEmitsSortAsc(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondFunc(func(string) string { return "OK RESULTS 0" })

	_, err := client.Search(context.Background(), "books", "go", mygram.WithAscendingOrder())
	require.NoError(t, err)

	assert.Equal(t, "SEARCH books go SORT ASC", server.LastRequest())
}

func TestClient_Search_DefaultSortEmitsNothing(t *testing.T) {
	client, server := newTestClient(t)
	server.RespondFunc(func(string) string { return "OK RESULTS 0" })

	_, err := client.Search(context.Background(), "books", "go")
	require.NoError(t, err)

	assert.Equal(t, "SEARCH books go", server.LastRequest())
}

func TestClient_Search_DebugTail(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("SEARCH items go",
		"OK RESULTS 2 7 9 DEBUG query_time=1.25 terms=1 ngrams=3 candidates=40 final=2 optimization=intersect")

	result, err := client.Search(context.Background(), "items", "go")
	require.NoError(t, err)

	require.NotNil(t, result.Debug)
	assert.Equal(t, []string{"7", "9"}, result.IDs)
	assert.Equal(t, 1.25, result.Debug.QueryTimeMs)
	assert.Equal(t, uint32(1), result.Debug.Terms)
	assert.Equal(t, uint32(3), result.Debug.Ngrams)
	assert.Equal(t, uint64(40), result.Debug.Candidates)
	assert.Equal(t, uint64(2), result.Debug.Final)
	assert.Equal(t, "intersect", result.Debug.Optimization)
}

func TestClient_Search_ServerError(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("SEARCH missing go", "ERROR Table not found: missing")

	_, err := client.Search(context.Background(), "missing", "go")
	require.Error(t, err)

	var serverErr *mygram.ServerError
	require.ErrorAs(t, err, &serverErr)
	assert.Equal(t, "Table not found: missing", serverErr.Message)
}

func TestClient_Search_SyntaxErrorBeforeSend(t *testing.T) {
	client, server := newTestClient(t)

	_, err := client.Search(context.Background(), "items", "+")
	require.Error(t, err)

	var syntaxErr *query.SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, "Expected term after '+' at position 0", syntaxErr.Message)
	assert.Empty(t, server.Requests(), "nothing may reach the wire on a compile error")
}

func TestClient_Search_ValidationRejectsInjection(t *testing.T) {
	client, server := newTestClient(t)

	cases := []struct {
		name string
		run  func() error
	}{
		{"table with space", func() error {
			_, err := client.Search(context.Background(), "bad table", "go")
			return err
		}},
		{"table with newline", func() error {
			_, err := client.Search(context.Background(), "items\r\nINFO", "go")
			return err
		}},
		{"empty table", func() error {
			_, err := client.Search(context.Background(), "", "go")
			return err
		}},
		{"filter key with space", func() error {
			_, err := client.Search(context.Background(), "items", "go", mygram.WithFilter("bad key", "v"))
			return err
		}},
		{"sort column with newline", func() error {
			_, err := client.Search(context.Background(), "items", "go", mygram.WithSort("a\nb", true))
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.run())
		})
	}
	assert.Empty(t, server.Requests())
}

func TestClient_Count(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("COUNT items go AND web NOT legacy FILTER status = active", "OK COUNT 42")

	result, err := client.Count(context.Background(), "items", "+go web -legacy",
		mygram.WithFilter("status", "active"))
	require.NoError(t, err)

	assert.Equal(t, uint64(42), result.Count)
}

func TestClient_Get(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("GET items 42", "OK DOC 42 title=golang genre_id=5 published=true")

	doc, err := client.Get(context.Background(), "items", "42")
	require.NoError(t, err)

	assert.Equal(t, "42", doc.PrimaryKey)
	assert.Equal(t, map[string]string{
		"title":     "golang",
		"genre_id":  "5",
		"published": "true",
	}, doc.Fields)
}

func TestClient_Info(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("INFO",
		"OK INFO\r\n"+
			"# Server\r\n"+
			"version: 1.4.2\r\n"+
			"uptime_seconds: 3600\r\n"+
			"\r\n"+
			"# Stats\r\n"+
			"total_requests: 1200\r\n"+
			"active_connections: 3\r\n"+
			"index_size_bytes: 1048576\r\n"+
			"doc_count: 5000\r\n"+
			"tables: items,books")

	info, err := client.Info(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "1.4.2", info.Version)
	assert.Equal(t, uint64(3600), info.UptimeSeconds)
	assert.Equal(t, uint64(1200), info.TotalRequests)
	assert.Equal(t, uint64(3), info.ActiveConnections)
	assert.Equal(t, uint64(1048576), info.IndexSizeBytes)
	assert.Equal(t, uint64(5000), info.DocCount)
	assert.Equal(t, []string{"items", "books"}, info.Tables)
}

func TestClient_SaveLoad(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("SAVE", "OK SAVED /var/lib/mygram/snapshot.bin")
	server.Respond("SAVE /tmp/snap.bin", "OK SAVED /tmp/snap.bin")
	server.Respond("LOAD /tmp/snap.bin", "OK LOADED /tmp/snap.bin")

	path, err := client.Save(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/mygram/snapshot.bin", path)

	path, err = client.Save(context.Background(), "/tmp/snap.bin")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/snap.bin", path)

	path, err = client.Load(context.Background(), "/tmp/snap.bin")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/snap.bin", path)
}

func TestClient_Replication(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("REPLICATION STATUS",
		"OK REPLICATION\r\nstatus=running gtid=3e11fa47-71ca-11e1-9e33-c80aa9429562:1-5")
	server.Respond("REPLICATION STOP", "OK")
	server.Respond("REPLICATION START", "OK")

	status, err := client.ReplicationStatus(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Running)
	assert.Equal(t, "3e11fa47-71ca-11e1-9e33-c80aa9429562:1-5", status.GTID)

	require.NoError(t, client.StopReplication(context.Background()))
	require.NoError(t, client.StartReplication(context.Background()))
}

func TestClient_DebugToggle(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("DEBUG ON", "OK")
	server.Respond("DEBUG OFF", "OK")

	require.NoError(t, client.EnableDebug(context.Background()))
	require.NoError(t, client.DisableDebug(context.Background()))
}

func TestClient_ServerConfig(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("CONFIG", "OK CONFIG\r\nport=11016\r\nmax_connections=100")

	raw, err := client.ServerConfig(context.Background())
	require.NoError(t, err)
	assert.Contains(t, raw, "max_connections=100")
}

func TestClient_NotConnected(t *testing.T) {
	client := mygram.New(mygram.Config{})

	_, err := client.Search(context.Background(), "items", "go")
	assert.ErrorIs(t, err, mygram.ErrNotConnected)
}

func TestClient_DoubleConnect(t *testing.T) {
	client, _ := newTestClient(t)

	err := client.Connect(context.Background())
	assert.ErrorIs(t, err, mygram.ErrAlreadyConnected)
}

func TestClient_TimeoutOnSilentServer(t *testing.T) {
	server := pkgtesting.NewMygramServer(t)
	server.Silence("INFO")

	client := mygram.New(mygram.Config{
		Host:    server.Host(),
		Port:    server.Port(),
		Timeout: 50 * time.Millisecond,
	})
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	start := time.Now()
	_, err := client.Info(context.Background())
	require.Error(t, err)

	var netErr interface{ Timeout() bool }
	require.ErrorAs(t, err, &netErr)
	assert.True(t, netErr.Timeout())
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_ContextDeadlineTightensTimeout(t *testing.T) {
	server := pkgtesting.NewMygramServer(t)
	server.Silence("INFO")

	client := mygram.New(mygram.Config{
		Host:    server.Host(),
		Port:    server.Port(),
		Timeout: 30 * time.Second,
	})
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Info(ctx)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestClient_CanceledContext(t *testing.T) {
	client, _ := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Info(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_UsableAgainAfterClose(t *testing.T) {
	client, server := newTestClient(t)
	server.Respond("INFO", "OK INFO\r\nversion: 1.0.0")

	_, err := client.Info(context.Background())
	require.NoError(t, err)

	require.NoError(t, client.Close())
	_, err = client.Info(context.Background())
	assert.ErrorIs(t, err, mygram.ErrNotConnected)

	require.NoError(t, client.Connect(context.Background()))
	info, err := client.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", info.Version)
}

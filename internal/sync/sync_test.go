package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbsmedya/tap-bingads/internal/bingads"
	"github.com/dbsmedya/tap-bingads/internal/catalog"
	"github.com/dbsmedya/tap-bingads/internal/config"
	"github.com/dbsmedya/tap-bingads/internal/logger"
)

// fakeClient serves a small fixed hierarchy: account 100 with two campaigns,
// campaign 1 with one ad group, ad group 10 with one ad.
type fakeClient struct {
	accounts map[string]map[string]any
	err      error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		accounts: map[string]map[string]any{
			"100": {"Id": int64(100), "Name": "Contoso", "AccountLifeCycleStatus": "Active"},
			"200": {"Id": int64(200), "Name": "Fabrikam", "AccountLifeCycleStatus": "Pause"},
		},
	}
}

func (f *fakeClient) GetAccount(ctx context.Context, accountID string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	account, ok := f.accounts[accountID]
	if !ok {
		return nil, fmt.Errorf("unknown account %s", accountID)
	}
	return account, nil
}

func (f *fakeClient) GetCampaignsByAccountID(ctx context.Context, accountID string) ([]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	if accountID != "100" {
		return nil, nil
	}
	return []any{
		map[string]any{"Id": int64(1), "Name": "Brand"},
		map[string]any{"Id": int64(2), "Name": "Generic"},
	}, nil
}

func (f *fakeClient) GetAdGroupsByCampaignID(ctx context.Context, campaignID string) ([]any, error) {
	if campaignID != "1" {
		return nil, nil
	}
	return []any{map[string]any{"Id": int64(10), "Name": "Exact"}}, nil
}

func (f *fakeClient) GetAdsByAdGroupID(ctx context.Context, adGroupID string) ([]any, error) {
	if adGroupID != "10" {
		return nil, nil
	}
	return []any{map[string]any{"Id": int64(77), "Type": "Text"}}, nil
}

func (f *fakeClient) GetAccountIDs(ctx context.Context, customerID string) ([]string, error) {
	return []string{"100", "200"}, nil
}

func fakeFactory(c Client) ClientFactory {
	return func(ctx context.Context, service bingads.Service, accountID string) (Client, error) {
		return c, nil
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	streamSchema := json.RawMessage(`{"type":["object"]}`)
	cat := &catalog.Catalog{}
	for _, name := range []string{"accounts", "campaigns", "ad_groups", "ads"} {
		cat.Streams = append(cat.Streams, catalog.Stream{
			TapStreamID:       name,
			Stream:            name,
			KeyProperties:     []string{"Id"},
			Schema:            streamSchema,
			ReplicationMethod: catalog.ReplicationFullTable,
		})
	}
	return cat
}

func syncConfig(accountIDs string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.CustomerID = "9000"
	cfg.AccountIDs = accountIDs
	return cfg
}

type message struct {
	Type   string          `json:"type"`
	Stream string          `json:"stream"`
	Record map[string]any  `json:"record"`
	Value  json.RawMessage `json:"value"`
}

func decodeMessages(t *testing.T, out string) []message {
	t.Helper()
	var msgs []message
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var m message
		require.NoError(t, json.Unmarshal([]byte(line), &m), "line: %s", line)
		msgs = append(msgs, m)
	}
	return msgs
}

func TestSyncRun(t *testing.T) {
	var out bytes.Buffer
	s := New(syncConfig("100"), testCatalog(t), logger.NewDefault(), &out,
		json.RawMessage(`{"bookmarks":{}}`), fakeFactory(newFakeClient()))

	require.NoError(t, s.Run(context.Background()))

	msgs := decodeMessages(t, out.String())

	// Four schemas, then records parent before child, then final state.
	var kinds []string
	for _, m := range msgs {
		if m.Type == "SCHEMA" || m.Type == "RECORD" {
			kinds = append(kinds, m.Type+":"+m.Stream)
		} else {
			kinds = append(kinds, m.Type)
		}
	}
	assert.Equal(t, []string{
		"SCHEMA:accounts", "SCHEMA:campaigns", "SCHEMA:ad_groups", "SCHEMA:ads",
		"RECORD:accounts",
		"RECORD:campaigns", "RECORD:campaigns",
		"RECORD:ad_groups",
		"RECORD:ads",
		"STATE",
	}, kinds)

	// The incoming state document is echoed back verbatim.
	last := msgs[len(msgs)-1]
	assert.JSONEq(t, `{"bookmarks":{}}`, string(last.Value))
}

func TestSyncRunAllVisibleAccountsWhenNoneConfigured(t *testing.T) {
	var out bytes.Buffer
	s := New(syncConfig(""), testCatalog(t), logger.NewDefault(), &out, nil,
		fakeFactory(newFakeClient()))

	require.NoError(t, s.Run(context.Background()))

	var accountRecords []string
	for _, m := range decodeMessages(t, out.String()) {
		if m.Type == "RECORD" && m.Stream == "accounts" {
			accountRecords = append(accountRecords, m.Record["Name"].(string))
		}
	}
	assert.Equal(t, []string{"Contoso", "Fabrikam"}, accountRecords)
}

func TestSyncRunIntersectsConfiguredAccounts(t *testing.T) {
	// 300 is configured but not visible; only the overlap is synced.
	var out bytes.Buffer
	s := New(syncConfig("100,300"), testCatalog(t), logger.NewDefault(), &out, nil,
		fakeFactory(newFakeClient()))

	require.NoError(t, s.Run(context.Background()))

	var accountRecords int
	for _, m := range decodeMessages(t, out.String()) {
		if m.Type == "RECORD" && m.Stream == "accounts" {
			accountRecords++
		}
	}
	assert.Equal(t, 1, accountRecords)
}

func TestSyncRunNoMatchingAccounts(t *testing.T) {
	var out bytes.Buffer
	s := New(syncConfig("999"), testCatalog(t), logger.NewDefault(), &out, nil,
		fakeFactory(newFakeClient()))

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no syncable account ids")
	assert.Zero(t, out.Len(), "nothing is emitted when no account matches")
}

func TestSyncRunDeselectedStreams(t *testing.T) {
	no := false
	cat := testCatalog(t)
	cat.Get("accounts").Selected = &no
	cat.Get("campaigns").Selected = &no

	var out bytes.Buffer
	s := New(syncConfig("100"), cat, logger.NewDefault(), &out, nil,
		fakeFactory(newFakeClient()))

	require.NoError(t, s.Run(context.Background()))

	var kinds []string
	for _, m := range decodeMessages(t, out.String()) {
		if m.Type == "SCHEMA" || m.Type == "RECORD" {
			kinds = append(kinds, m.Type+":"+m.Stream)
		} else {
			kinds = append(kinds, m.Type)
		}
	}

	// Deselected campaigns emit no schema and no records, but their ids
	// still feed the ad group walk.
	assert.Equal(t, []string{
		"SCHEMA:ad_groups", "SCHEMA:ads",
		"RECORD:ad_groups",
		"RECORD:ads",
		"STATE",
	}, kinds)
}

func TestSyncRunAbortsWithoutState(t *testing.T) {
	client := newFakeClient()
	client.err = fmt.Errorf("throttled")

	var out bytes.Buffer
	s := New(syncConfig("100"), testCatalog(t), logger.NewDefault(), &out, nil,
		fakeFactory(client))

	err := s.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")

	for _, m := range decodeMessages(t, out.String()) {
		assert.NotEqual(t, "STATE", m.Type, "a failed run must not emit state")
	}
}

func TestIntersectAccountIDs(t *testing.T) {
	cases := []struct {
		name       string
		configured []string
		fetched    []string
		want       []string
	}{
		{"nothing configured", nil, []string{"1", "2"}, []string{"1", "2"}},
		{"all configured visible", []string{"2", "1"}, []string{"1", "2", "3"}, []string{"2", "1"}},
		{"partial overlap", []string{"1", "9"}, []string{"1", "2"}, []string{"1"}},
		{"no overlap", []string{"9"}, []string{"1", "2"}, nil},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, intersectAccountIDs(c.configured, c.fetched))
		})
	}
}

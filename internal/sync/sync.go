// Package sync walks the advertising account hierarchy and emits one record
// per extracted entity, parent before child: accounts, then per account its
// campaigns, each campaign's ad groups, and each ad group's ads.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/dbsmedya/tap-bingads/internal/auth"
	"github.com/dbsmedya/tap-bingads/internal/bingads"
	"github.com/dbsmedya/tap-bingads/internal/catalog"
	"github.com/dbsmedya/tap-bingads/internal/config"
	"github.com/dbsmedya/tap-bingads/internal/logger"
	"github.com/dbsmedya/tap-bingads/internal/singer"
)

// Client is the slice of the SOAP client the sync walk depends on.
type Client interface {
	GetAccount(ctx context.Context, accountID string) (map[string]any, error)
	GetCampaignsByAccountID(ctx context.Context, accountID string) ([]any, error)
	GetAdGroupsByCampaignID(ctx context.Context, campaignID string) ([]any, error)
	GetAdsByAdGroupID(ctx context.Context, adGroupID string) ([]any, error)
	GetAccountIDs(ctx context.Context, customerID string) ([]string, error)
}

// ClientFactory builds a freshly authorized client for one service scoped to
// one account. Sync constructs a new client per service/account pair so
// every call chain runs with a current token.
type ClientFactory func(ctx context.Context, service bingads.Service, accountID string) (Client, error)

// DefaultFactory returns the production factory: a token refresh per client
// construction, scoped to the configured customer.
func DefaultFactory(cfg *config.Config, log *logger.Logger) ClientFactory {
	return func(ctx context.Context, service bingads.Service, accountID string) (Client, error) {
		token, err := auth.AccessToken(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return bingads.NewClient(service, bingads.AuthData{
			AccessToken:    token,
			DeveloperToken: cfg.DeveloperToken,
			CustomerID:     cfg.CustomerID,
			AccountID:      accountID,
		}, bingads.WithUserAgent(cfg.UserAgent), bingads.WithLogger(log)), nil
	}
}

// streamOrder fixes the order schemas are announced in. It mirrors the
// parent-before-child record order.
var streamOrder = []string{"accounts", "campaigns", "ad_groups", "ads"}

// Syncer drives a full-table sync of the selected catalog streams.
type Syncer struct {
	cfg     *config.Config
	cat     *catalog.Catalog
	log     *logger.Logger
	emitter *singer.Emitter
	factory ClientFactory
	state   json.RawMessage
	counts  map[string]int
}

// New creates a Syncer emitting Singer messages to out.
func New(cfg *config.Config, cat *catalog.Catalog, log *logger.Logger, out io.Writer, state json.RawMessage, factory ClientFactory) *Syncer {
	return &Syncer{
		cfg:     cfg,
		cat:     cat,
		log:     log,
		emitter: singer.NewEmitter(out),
		factory: factory,
		state:   state,
		counts:  make(map[string]int),
	}
}

// Run syncs every configured account. A remote-call failure aborts the run;
// no state is emitted for a partial sync.
func (s *Syncer) Run(ctx context.Context) error {
	accountIDs, err := s.resolveAccountIDs(ctx)
	if err != nil {
		return err
	}
	if len(accountIDs) == 0 {
		return fmt.Errorf("no syncable account ids: configured ids do not match any fetched ad account")
	}

	if err := s.emitSchemas(); err != nil {
		return err
	}

	if s.selected("accounts") {
		if err := s.syncAccounts(ctx, accountIDs); err != nil {
			return err
		}
	}

	for _, accountID := range accountIDs {
		if err := s.syncCoreObjects(ctx, accountID); err != nil {
			return err
		}
	}

	if err := s.emitter.State(s.state); err != nil {
		return err
	}

	for _, stream := range streamOrder {
		s.log.WithStream(stream).Infow("Stream sync finished", "records", s.counts[stream])
	}
	return nil
}

// resolveAccountIDs intersects the configured account ids with the ad
// accounts actually visible to the authorized customer.
func (s *Syncer) resolveAccountIDs(ctx context.Context) ([]string, error) {
	client, err := s.factory(ctx, bingads.CustomerManagement, "")
	if err != nil {
		return nil, err
	}
	fetched, err := client.GetAccountIDs(ctx, s.cfg.CustomerID)
	if err != nil {
		return nil, err
	}
	return intersectAccountIDs(s.cfg.AccountIDList(), fetched), nil
}

// intersectAccountIDs keeps the configured ids when all of them are
// fetchable, otherwise falls back to the overlap; with nothing configured,
// every fetched account is synced.
func intersectAccountIDs(configured, fetched []string) []string {
	if len(configured) == 0 {
		return fetched
	}
	fetchedSet := make(map[string]bool, len(fetched))
	for _, id := range fetched {
		fetchedSet[id] = true
	}
	var ids []string
	for _, id := range configured {
		if fetchedSet[id] {
			ids = append(ids, id)
		}
	}
	if len(ids) == len(configured) {
		return configured
	}
	return ids
}

func (s *Syncer) selected(stream string) bool {
	st := s.cat.Get(stream)
	return st != nil && st.IsSelected()
}

// emitSchemas announces every selected stream's schema before any records.
func (s *Syncer) emitSchemas() error {
	for _, name := range streamOrder {
		st := s.cat.Get(name)
		if st == nil || !st.IsSelected() {
			continue
		}
		if err := s.emitter.Schema(st.TapStreamID, st.Schema, st.KeyProperties); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) emitRecord(stream string, record map[string]any) error {
	if err := s.emitter.Record(stream, record); err != nil {
		return err
	}
	s.counts[stream]++
	return nil
}

// syncAccounts fetches and emits one record per account id, each through a
// freshly authorized CustomerManagementService client.
func (s *Syncer) syncAccounts(ctx context.Context, accountIDs []string) error {
	for _, accountID := range accountIDs {
		client, err := s.factory(ctx, bingads.CustomerManagement, accountID)
		if err != nil {
			return err
		}
		account, err := client.GetAccount(ctx, accountID)
		if err != nil {
			return err
		}
		if err := s.emitRecord("accounts", account); err != nil {
			return err
		}
	}
	return nil
}

// syncCoreObjects walks one account's campaign hierarchy in strict
// parent-before-child order. Child ids always come from the parent fetch,
// so a campaign with no ad groups simply contributes nothing downstream.
func (s *Syncer) syncCoreObjects(ctx context.Context, accountID string) error {
	log := s.log.WithAccount(accountID)
	client, err := s.factory(ctx, bingads.CampaignManagement, accountID)
	if err != nil {
		return err
	}

	log.Info("Syncing campaigns")
	campaignIDs, err := s.syncCampaigns(ctx, client, accountID)
	if err != nil {
		return err
	}
	if len(campaignIDs) == 0 {
		return nil
	}

	adGroupIDs, err := s.syncAdGroups(ctx, client, log, campaignIDs)
	if err != nil {
		return err
	}

	log.Info("Syncing ads")
	return s.syncAds(ctx, client, adGroupIDs)
}

func (s *Syncer) syncCampaigns(ctx context.Context, client Client, accountID string) ([]string, error) {
	campaigns, err := client.GetCampaignsByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, c := range campaigns {
		record, ok := bingads.AsObject(c)
		if !ok {
			continue
		}
		if s.selected("campaigns") {
			if err := s.emitRecord("campaigns", record); err != nil {
				return nil, err
			}
		}
		if record["Id"] != nil {
			ids = append(ids, bingads.IDString(record["Id"]))
		}
	}
	return ids, nil
}

func (s *Syncer) syncAdGroups(ctx context.Context, client Client, log *logger.Logger, campaignIDs []string) ([]string, error) {
	var ids []string
	for _, campaignID := range campaignIDs {
		adGroups, err := client.GetAdGroupsByCampaignID(ctx, campaignID)
		if err != nil {
			return nil, err
		}
		if len(adGroups) == 0 {
			continue
		}

		log.Infow("Syncing ad groups", "campaign", campaignID)
		for _, g := range adGroups {
			record, ok := bingads.AsObject(g)
			if !ok {
				continue
			}
			if s.selected("ad_groups") {
				if err := s.emitRecord("ad_groups", record); err != nil {
					return nil, err
				}
			}
			if record["Id"] != nil {
				ids = append(ids, bingads.IDString(record["Id"]))
			}
		}
	}
	return ids, nil
}

func (s *Syncer) syncAds(ctx context.Context, client Client, adGroupIDs []string) error {
	for _, adGroupID := range adGroupIDs {
		ads, err := client.GetAdsByAdGroupID(ctx, adGroupID)
		if err != nil {
			return err
		}
		for _, a := range ads {
			record, ok := bingads.AsObject(a)
			if !ok {
				continue
			}
			if s.selected("ads") {
				if err := s.emitRecord("ads", record); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

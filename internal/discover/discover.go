// Package discover drives schema discovery across the Bing Ads services of
// interest and serializes the resulting stream catalog.
package discover

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dbsmedya/tap-bingads/internal/auth"
	"github.com/dbsmedya/tap-bingads/internal/bingads"
	"github.com/dbsmedya/tap-bingads/internal/catalog"
	"github.com/dbsmedya/tap-bingads/internal/config"
	"github.com/dbsmedya/tap-bingads/internal/logger"
	"github.com/dbsmedya/tap-bingads/internal/schema"
	"github.com/dbsmedya/tap-bingads/internal/wsdl"
)

// entity names one top-level type to expose as a stream.
type entity struct {
	stream   string
	typeName string
	keys     []string
}

// serviceEntities binds a service to the entities discovered from its WSDL.
type serviceEntities struct {
	service  bingads.Service
	entities []entity
}

// defaultServices lists the core objects of interest per service.
func defaultServices() []serviceEntities {
	return []serviceEntities{
		{
			service: bingads.CustomerManagement,
			entities: []entity{
				{stream: "accounts", typeName: "AdvertiserAccount", keys: []string{"Id"}},
			},
		},
		{
			service: bingads.CampaignManagement,
			entities: []entity{
				{stream: "campaigns", typeName: "Campaign", keys: []string{"Id"}},
				{stream: "ad_groups", typeName: "AdGroup", keys: []string{"Id"}},
				{stream: "ads", typeName: "Ad", keys: []string{"Id"}},
			},
		},
	}
}

// TokenFunc obtains a fresh access token for the run.
type TokenFunc func(ctx context.Context) (string, error)

// Discoverer builds and emits the stream catalog.
type Discoverer struct {
	cfg      *config.Config
	log      *logger.Logger
	out      io.Writer
	http     *http.Client
	token    TokenFunc
	services []serviceEntities
}

// Option customizes a Discoverer.
type Option func(*Discoverer)

// WithHTTPClient overrides the HTTP client used for WSDL fetches.
func WithHTTPClient(h *http.Client) Option {
	return func(d *Discoverer) { d.http = h }
}

// WithTokenFunc overrides token acquisition.
func WithTokenFunc(fn TokenFunc) Option {
	return func(d *Discoverer) { d.token = fn }
}

// WithServiceEndpoint redirects one service to a different endpoint.
func WithServiceEndpoint(serviceName, endpoint string) Option {
	return func(d *Discoverer) {
		for i := range d.services {
			if d.services[i].service.Name == serviceName {
				d.services[i].service = d.services[i].service.WithEndpoint(endpoint)
			}
		}
	}
}

// New creates a Discoverer writing the catalog document to out.
func New(cfg *config.Config, log *logger.Logger, out io.Writer, opts ...Option) *Discoverer {
	d := &Discoverer{
		cfg:      cfg,
		log:      log,
		out:      out,
		http:     &http.Client{Timeout: time.Duration(cfg.RequestTimeout) * time.Second},
		services: defaultServices(),
	}
	d.token = func(ctx context.Context) (string, error) {
		return auth.AccessToken(ctx, cfg)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run performs discovery across every service of interest and writes the
// aggregate catalog. Any transport failure aborts the whole run: a partial
// catalog is never valid.
func (d *Discoverer) Run(ctx context.Context) error {
	// Authorize up front so credential problems fail the run before any
	// type metadata is fetched.
	if _, err := d.token(ctx); err != nil {
		return err
	}

	var streams []catalog.Stream
	for _, se := range d.services {
		svcLog := d.log.WithService(se.service.Name)
		svcLog.Infow("Discovering service types", "endpoint", se.service.Endpoint)

		types, err := wsdl.Fetch(ctx, d.http, se.service.Endpoint, d.cfg.UserAgent)
		if err != nil {
			return fmt.Errorf("discovery of %s failed: %w", se.service.Name, err)
		}

		typeMap := schema.BuildTypeMap(types)
		svcLog.Infow("Built service type map", "types", typeMap.Len())
		for _, ref := range typeMap.UnresolvedRefs() {
			svcLog.Warnw("Leaving unresolved type reference in schema",
				"type", ref.Type, "property", ref.Property, "target", ref.Target)
		}

		for _, e := range se.entities {
			frag, ok := typeMap.Get(e.typeName)
			if !ok {
				return fmt.Errorf("type %s not found in %s type map", e.typeName, se.service.Name)
			}
			stream, err := catalog.NewStream(e.stream, e.keys, frag, "")
			if err != nil {
				return err
			}
			streams = append(streams, stream)
		}
	}

	enc := json.NewEncoder(d.out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalog.Catalog{Streams: streams}); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	d.log.Infow("Discovery complete", "streams", len(streams))
	return nil
}

package bingads

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dbsmedya/tap-bingads/internal/logger"
)

// AuthData carries the per-call authorization header fields. Every client is
// scoped to one account/customer pair and holds a freshly refreshed token.
type AuthData struct {
	AccessToken    string
	DeveloperToken string
	CustomerID     string
	AccountID      string
}

// Client performs SOAP calls against one service for one account.
type Client struct {
	service   Service
	auth      AuthData
	http      *http.Client
	userAgent string
	log       *logger.Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUserAgent sets the User-Agent sent on every call.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for call tracing.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client for one service scoped to one account.
func NewClient(service Service, auth AuthData, opts ...Option) *Client {
	c := &Client{
		service:   service,
		auth:      auth,
		http:      &http.Client{Timeout: 300 * time.Second},
		userAgent: "tap-bingads",
		log:       logger.NewDefault(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// adTypeFilter is the fixed set of ad types requested from GetAdsByAdGroupId.
var adTypeFilter = []string{"AppInstall", "DynamicSearch", "ExpandedText", "Product", "Text", "Image"}

// GetAccount fetches one advertiser account.
func (c *Client) GetAccount(ctx context.Context, accountID string) (map[string]any, error) {
	body := fmt.Sprintf(
		`<GetAccountRequest xmlns=%q><AccountId i:nil="false">%s</AccountId></GetAccountRequest>`,
		c.service.Namespace, escape(accountID),
	)
	resp, err := c.call(ctx, "GetAccount", accountID, body)
	if err != nil {
		return nil, err
	}
	account, ok := AsObject(Field(resp, "Envelope", "Body", "GetAccountResponse", "Account"))
	if !ok {
		return nil, fmt.Errorf("GetAccount response for account %s has no Account", accountID)
	}
	return account, nil
}

// GetCampaignsByAccountID fetches every campaign of an account. The type
// filter covers all campaign kinds; the service defaults to Search only.
func (c *Client) GetCampaignsByAccountID(ctx context.Context, accountID string) ([]any, error) {
	body := fmt.Sprintf(
		`<GetCampaignsByAccountIdRequest xmlns=%q><AccountId>%s</AccountId><CampaignType>Search Shopping DynamicSearchAds</CampaignType></GetCampaignsByAccountIdRequest>`,
		c.service.Namespace, escape(accountID),
	)
	resp, err := c.call(ctx, "GetCampaignsByAccountId", accountID, body)
	if err != nil {
		return nil, err
	}
	return AsList(Field(resp, "Envelope", "Body", "GetCampaignsByAccountIdResponse", "Campaigns", "Campaign")), nil
}

// GetAdGroupsByCampaignID fetches every ad group of a campaign.
func (c *Client) GetAdGroupsByCampaignID(ctx context.Context, campaignID string) ([]any, error) {
	body := fmt.Sprintf(
		`<GetAdGroupsByCampaignIdRequest xmlns=%q><CampaignId>%s</CampaignId></GetAdGroupsByCampaignIdRequest>`,
		c.service.Namespace, escape(campaignID),
	)
	resp, err := c.call(ctx, "GetAdGroupsByCampaignId", c.auth.AccountID, body)
	if err != nil {
		return nil, err
	}
	return AsList(Field(resp, "Envelope", "Body", "GetAdGroupsByCampaignIdResponse", "AdGroups", "AdGroup")), nil
}

// GetAdsByAdGroupID fetches the ads of an ad group matching the fixed
// ad-type filter.
func (c *Client) GetAdsByAdGroupID(ctx context.Context, adGroupID string) ([]any, error) {
	var types strings.Builder
	for _, t := range adTypeFilter {
		fmt.Fprintf(&types, "<AdType>%s</AdType>", t)
	}
	body := fmt.Sprintf(
		`<GetAdsByAdGroupIdRequest xmlns=%q><AdGroupId>%s</AdGroupId><AdTypes>%s</AdTypes></GetAdsByAdGroupIdRequest>`,
		c.service.Namespace, escape(adGroupID), types.String(),
	)
	resp, err := c.call(ctx, "GetAdsByAdGroupId", c.auth.AccountID, body)
	if err != nil {
		return nil, err
	}
	return AsList(Field(resp, "Envelope", "Body", "GetAdsByAdGroupIdResponse", "Ads", "Ad")), nil
}

// GetCustomerID fetches the customer id of the authorized user.
func (c *Client) GetCustomerID(ctx context.Context) (string, error) {
	body := fmt.Sprintf(
		`<GetCustomersInfoRequest xmlns=%q><CustomerNameFilter i:nil="false"></CustomerNameFilter><TopN>1</TopN></GetCustomersInfoRequest>`,
		c.service.Namespace,
	)
	resp, err := c.call(ctx, "GetCustomersInfo", "", body)
	if err != nil {
		return "", err
	}
	id := Field(resp, "Envelope", "Body", "GetCustomersInfoResponse", "CustomersInfo", "CustomerInfo", "Id")
	if id == nil {
		return "", fmt.Errorf("GetCustomersInfo response has no customer id")
	}
	return IDString(id), nil
}

// GetAccountIDs fetches the ad account ids visible to a customer.
func (c *Client) GetAccountIDs(ctx context.Context, customerID string) ([]string, error) {
	body := fmt.Sprintf(
		`<GetAccountsInfoRequest xmlns=%q><CustomerId i:nil="false">%s</CustomerId><OnlyParentAccounts>false</OnlyParentAccounts></GetAccountsInfoRequest>`,
		c.service.Namespace, escape(customerID),
	)
	resp, err := c.call(ctx, "GetAccountsInfo", "", body)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, info := range AsList(Field(resp, "Envelope", "Body", "GetAccountsInfoResponse", "AccountsInfo", "AccountInfo")) {
		if obj, ok := AsObject(info); ok && obj["Id"] != nil {
			ids = append(ids, IDString(obj["Id"]))
		}
	}
	return ids, nil
}

// call posts one SOAP request and returns the decoded response document.
// SOAP faults and non-200 responses are errors; callers let them propagate
// to the top level, where the run is aborted.
func (c *Client) call(ctx context.Context, action, accountID string, body string) (map[string]any, error) {
	c.log.Infow("Calling SOAP operation",
		"service", c.service.Name,
		"action", action,
		"account", accountID,
	)

	envelope := c.buildEnvelope(action, body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.service.Endpoint, strings.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", action)
	req.Header.Set("User-Agent", c.userAgent)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", action, err)
	}

	c.log.Debugw("SOAP operation finished",
		"action", action,
		"status", resp.StatusCode,
		"duration", time.Since(started),
	)

	doc, decodeErr := DecodeDocument(bytes.NewReader(raw))
	if decodeErr == nil {
		if fault := Field(doc, "Envelope", "Body", "Fault"); fault != nil {
			return nil, fmt.Errorf("%s returned SOAP fault: %s", action, faultString(fault))
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("non-200 (%d) response from %s", resp.StatusCode, action)
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return doc, nil
}

// buildEnvelope assembles the SOAP envelope with the authorization header
// fields the service expects. Customer and account ids are omitted for
// customer-scoped operations.
func (c *Client) buildEnvelope(action, body string) string {
	var header strings.Builder
	fmt.Fprintf(&header, `<Action mustUnderstand="1">%s</Action>`, action)
	fmt.Fprintf(&header, `<AuthenticationToken i:nil="false">%s</AuthenticationToken>`, escape(c.auth.AccessToken))
	if c.auth.AccountID != "" {
		fmt.Fprintf(&header, `<CustomerAccountId i:nil="false">%s</CustomerAccountId>`, escape(c.auth.AccountID))
	}
	if c.auth.CustomerID != "" {
		fmt.Fprintf(&header, `<CustomerId i:nil="false">%s</CustomerId>`, escape(c.auth.CustomerID))
	}
	fmt.Fprintf(&header, `<DeveloperToken i:nil="false">%s</DeveloperToken>`, escape(c.auth.DeveloperToken))

	return fmt.Sprintf(
		`<s:Envelope xmlns:i="http://www.w3.org/2001/XMLSchema-instance" xmlns:s="http://schemas.xmlsoap.org/soap/envelope/">`+
			`<s:Header xmlns=%q>%s</s:Header>`+
			`<s:Body>%s</s:Body>`+
			`</s:Envelope>`,
		c.service.Namespace, header.String(), body,
	)
}

func faultString(fault any) string {
	if s := Field(fault, "faultstring"); s != nil {
		return fmt.Sprintf("%v", s)
	}
	if s := Field(fault, "Reason", "Text"); s != nil {
		return fmt.Sprintf("%v", s)
	}
	return "unknown fault"
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

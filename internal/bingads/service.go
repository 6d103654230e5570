// Package bingads is the SOAP transport for the Bing Ads v13 API: envelope
// construction, authorized calls, and a typed decode of response documents
// into plain Go values before any business logic touches them.
package bingads

// Service identifies one remote SOAP service.
type Service struct {
	Name      string
	Endpoint  string
	Namespace string
}

// The two services the tap talks to.
var (
	CustomerManagement = Service{
		Name:      "CustomerManagementService",
		Endpoint:  "https://clientcenter.api.bingads.microsoft.com/Api/CustomerManagement/v13/CustomerManagementService.svc",
		Namespace: "https://bingads.microsoft.com/Customer/v13",
	}
	CampaignManagement = Service{
		Name:      "CampaignManagementService",
		Endpoint:  "https://campaign.api.bingads.microsoft.com/Api/Advertiser/CampaignManagement/v13/CampaignManagementService.svc",
		Namespace: "https://bingads.microsoft.com/CampaignManagement/v13",
	}
)

// WithEndpoint returns a copy of the service pointing at a different
// endpoint. Tests use this to target a local stub server.
func (s Service) WithEndpoint(endpoint string) Service {
	s.Endpoint = endpoint
	return s
}

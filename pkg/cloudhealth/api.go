// Package cloudhealth names the CloudHealth endpoints and entity searches
// the CLI consumes and returns their results as records.
package cloudhealth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/Sternrassler/cloudhealth-client/pkg/client"
	"github.com/Sternrassler/cloudhealth-client/pkg/config"
	"github.com/Sternrassler/cloudhealth-client/pkg/pagination"
	"github.com/Sternrassler/cloudhealth-client/pkg/record"
)

// Endpoints, relative to the API base URL.
const (
	CustomersEndpoint = "v1/customers"
	SearchEndpoint    = "api/search.json"
)

// CustomersField is the array field holding records on a customers page.
const CustomersField = "customers"

// SearchAPIVersion is sent as api_version on every search.
const SearchAPIVersion = "2"

// ActiveFilter restricts instance searches to running resources.
const ActiveFilter = "is_active=1"

// Entity is a searchable asset type.
type Entity string

const (
	EntityAccount     Entity = "AwsAccount"
	EntityInstance    Entity = "AwsInstance"
	EntityRDSInstance Entity = "AwsRdsInstance"
)

// Field lists requested for each report.
var (
	AccountFields     = []string{"name", "amazon_name", "account_type", "cluster_name"}
	EC2InstanceFields = []string{"instance_id", "name", "instance_type.api_name", "state", "account.name"}
	RDSInstanceFields = []string{"instance_id", "flavor", "engine", "status", "account.name"}
)

// ErrMissingCustomerID is returned for a search without a customer.
var ErrMissingCustomerID = errors.New("customer id is required")

// SearchQuery describes one call to the generic search endpoint.
type SearchQuery struct {
	// CustomerID is sent as client_api_id.
	CustomerID string
	Entity     Entity
	Fields     []string
	// Filter is the optional query expression, e.g. ActiveFilter.
	Filter string
}

// Values encodes the query parameters.
func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	v.Set("api_version", SearchAPIVersion)
	v.Set("client_api_id", q.CustomerID)
	v.Set("name", string(q.Entity))
	if len(q.Fields) > 0 {
		v.Set("fields", strings.Join(q.Fields, ","))
	}
	if q.Filter != "" {
		v.Set("query", q.Filter)
	}
	return v
}

// Lister is the aggregation surface API depends on. *pagination.Paginator
// implements it.
type Lister interface {
	FetchAll(ctx context.Context, endpoint string, baseQuery url.Values, field string) ([]any, error)
	FetchUnpaged(ctx context.Context, endpoint string, query url.Values) ([]any, error)
}

// API issues the listings used by the reports.
type API struct {
	lister Lister
}

// New creates an API on top of a lister.
func New(lister Lister) *API {
	return &API{lister: lister}
}

// NewFromConfig wires a request executor and paginator from cfg.
func NewFromConfig(cfg *config.Config) (*API, error) {
	c, err := client.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	p, err := pagination.NewPaginator(c, pagination.Config{PageSize: cfg.PageSize()})
	if err != nil {
		return nil, fmt.Errorf("create paginator: %w", err)
	}

	return New(p), nil
}

// Customers returns every customer, in API order across pages.
func (a *API) Customers(ctx context.Context) ([]record.Record, error) {
	values, err := a.lister.FetchAll(ctx, CustomersEndpoint, nil, CustomersField)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return record.FromValues(values)
}

// Search runs one non-paginated search.
func (a *API) Search(ctx context.Context, q SearchQuery) ([]record.Record, error) {
	if strings.TrimSpace(q.CustomerID) == "" {
		return nil, ErrMissingCustomerID
	}

	values, err := a.lister.FetchUnpaged(ctx, SearchEndpoint, q.Values())
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.Entity, err)
	}
	return record.FromValues(values)
}

// Accounts returns the AWS accounts of a customer.
func (a *API) Accounts(ctx context.Context, customerID string) ([]record.Record, error) {
	return a.Search(ctx, SearchQuery{
		CustomerID: customerID,
		Entity:     EntityAccount,
		Fields:     AccountFields,
	})
}

// EC2Instances returns the active EC2 instances of a customer.
func (a *API) EC2Instances(ctx context.Context, customerID string) ([]record.Record, error) {
	return a.Search(ctx, SearchQuery{
		CustomerID: customerID,
		Entity:     EntityInstance,
		Fields:     EC2InstanceFields,
		Filter:     ActiveFilter,
	})
}

// RDSInstances returns the active RDS instances of a customer.
func (a *API) RDSInstances(ctx context.Context, customerID string) ([]record.Record, error) {
	return a.Search(ctx, SearchQuery{
		CustomerID: customerID,
		Entity:     EntityRDSInstance,
		Fields:     RDSInstanceFields,
		Filter:     ActiveFilter,
	})
}

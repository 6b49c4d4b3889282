package dataverse

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryParams represents OData query parameters for Dataverse list requests.
type QueryParams struct {
	// Filter is an OData $filter expression, e.g. "category eq 5".
	Filter string

	// Select lists the attributes to return.
	Select []string

	// OrderBy is an OData $orderby expression, e.g. "modifiedon desc".
	OrderBy string

	// Top limits the number of returned records.
	Top int

	// Count requests an @odata.count annotation in the response.
	Count bool
}

// NewQueryParams creates a new empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithFilter sets the $filter expression.
func (q *QueryParams) WithFilter(filter string) *QueryParams {
	q.Filter = filter

	return q
}

// WithSelect sets the $select attribute list.
func (q *QueryParams) WithSelect(fields ...string) *QueryParams {
	q.Select = fields

	return q
}

// WithOrderBy sets the $orderby expression.
func (q *QueryParams) WithOrderBy(orderBy string) *QueryParams {
	q.OrderBy = orderBy

	return q
}

// WithTop sets the $top limit.
func (q *QueryParams) WithTop(top int) *QueryParams {
	q.Top = top

	return q
}

// WithCount requests the @odata.count annotation.
func (q *QueryParams) WithCount() *QueryParams {
	q.Count = true

	return q
}

// ToValues converts QueryParams to url.Values using OData conventions.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Filter != "" {
		values.Set("$filter", q.Filter)
	}

	if len(q.Select) > 0 {
		values.Set("$select", strings.Join(q.Select, ","))
	}

	if q.OrderBy != "" {
		values.Set("$orderby", q.OrderBy)
	}

	if q.Top > 0 {
		values.Set("$top", strconv.Itoa(q.Top))
	}

	if q.Count {
		values.Set("$count", "true")
	}

	return values
}

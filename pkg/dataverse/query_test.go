package dataverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryParams_ToValues(t *testing.T) {
	t.Run("all parameters", func(t *testing.T) {
		params := NewQueryParams().
			WithFilter("category eq 5").
			WithSelect("workflowid", "name").
			WithOrderBy("modifiedon desc").
			WithTop(10).
			WithCount()

		values := params.ToValues()
		assert.Equal(t, "category eq 5", values.Get("$filter"))
		assert.Equal(t, "workflowid,name", values.Get("$select"))
		assert.Equal(t, "modifiedon desc", values.Get("$orderby"))
		assert.Equal(t, "10", values.Get("$top"))
		assert.Equal(t, "true", values.Get("$count"))
	})

	t.Run("empty params produce no values", func(t *testing.T) {
		values := NewQueryParams().ToValues()
		assert.Empty(t, values)
	})

	t.Run("nil receiver is safe", func(t *testing.T) {
		var params *QueryParams

		values := params.ToValues()
		assert.NotNil(t, values)
		assert.Empty(t, values)
	})

	t.Run("zero top is omitted", func(t *testing.T) {
		values := NewQueryParams().WithFilter("x eq 1").ToValues()
		assert.Empty(t, values.Get("$top"))
		assert.Empty(t, values.Get("$count"))
	})
}

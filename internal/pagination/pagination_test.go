package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsClamp(t *testing.T) {
	tests := []struct {
		name     string
		in       Params
		expected Params
	}{
		{"defaults applied", Params{Page: 0, PerPage: 0}, Params{Page: 1, PerPage: 10}},
		{"negative page floors at one", Params{Page: -3, PerPage: 5}, Params{Page: 1, PerPage: 5}},
		{"per_page capped", Params{Page: 2, PerPage: 5000}, Params{Page: 2, PerPage: MaxPerPage}},
		{"in range untouched", Params{Page: 4, PerPage: 25}, Params{Page: 4, PerPage: 25}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Clamp(10))
		})
	}
}

func TestParamsOffset(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 1, PerPage: 10}.Offset())
	assert.Equal(t, 30, Params{Page: 4, PerPage: 10}.Offset())
}

func TestCollectionMetaAndLinks(t *testing.T) {
	items := []int{11, 12, 13}
	p := Params{Page: 2, PerPage: 3}

	env := Collection(items, 8, p, "/api/things", func(n int) int { return n * 2 })

	assert.Equal(t, []int{22, 24, 26}, env.Items)
	assert.Equal(t, Meta{Page: 2, PerPage: 3, TotalPages: 3, TotalItems: 8}, env.Meta)

	assert.Equal(t, "/api/things?page=2&per_page=3", env.Links.Self)
	if assert.NotNil(t, env.Links.Next) {
		assert.Equal(t, "/api/things?page=3&per_page=3", *env.Links.Next)
	}
	if assert.NotNil(t, env.Links.Prev) {
		assert.Equal(t, "/api/things?page=1&per_page=3", *env.Links.Prev)
	}
}

func TestCollectionFirstAndLastPageLinks(t *testing.T) {
	first := Collection([]string{"a", "b"}, 4, Params{Page: 1, PerPage: 2}, "/api/things", func(s string) string { return s })
	assert.Nil(t, first.Links.Prev)
	assert.NotNil(t, first.Links.Next)

	last := Collection([]string{"c", "d"}, 4, Params{Page: 2, PerPage: 2}, "/api/things", func(s string) string { return s })
	assert.NotNil(t, last.Links.Prev)
	assert.Nil(t, last.Links.Next)
}

// A page past the end is a valid request: empty items, meta unchanged.
func TestCollectionPastTheEnd(t *testing.T) {
	env := Collection([]int{}, 8, Params{Page: 9, PerPage: 3}, "/api/things", func(n int) int { return n })

	assert.NotNil(t, env.Items)
	assert.Empty(t, env.Items)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Nil(t, env.Links.Next)
	assert.NotNil(t, env.Links.Prev)
}

func TestCollectionEmpty(t *testing.T) {
	env := Collection([]int{}, 0, Params{Page: 1, PerPage: 10}, "/api/things", func(n int) int { return n })

	assert.Empty(t, env.Items)
	assert.Equal(t, 0, env.Meta.TotalPages)
	assert.Nil(t, env.Links.Next)
	assert.Nil(t, env.Links.Prev)
}

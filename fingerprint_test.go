package querycache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFingerprintDeterminism(t *testing.T) {
	assert := require.New(t)

	tests := map[string]struct {
		a *Query
		b *Query
	}{
		"filter built in different orders": {
			a: NewQuery("blogs").Where("_user", "u1").Where("published", true),
			b: NewQuery("blogs").Where("published", true).Where("_user", "u1"),
		},
		"projection in different orders": {
			a: NewQuery("blogs").Where("_user", "u1").Select("title", "body"),
			b: NewQuery("blogs").Where("_user", "u1").Select("body", "title"),
		},
		"nested predicate trees": {
			a: NewQuery("blogs").Where("age", map[string]any{"$gt": 18, "$lt": 60}),
			b: NewQuery("blogs").Where("age", map[string]any{"$lt": 60, "$gt": 18}),
		},
		"full shape, different call orders": {
			a: NewQuery("blogs").Where("_user", "u1").OrderBy("createdAt", true).Limit(10).Skip(5),
			b: NewQuery("blogs").Limit(10).Skip(5).OrderBy("createdAt", true).Where("_user", "u1"),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			fa, err := defaultFingerprint(tc.a)
			assert.Nil(err)
			fb, err := defaultFingerprint(tc.b)
			assert.Nil(err)
			assert.Equal(fa, fb)
		})
	}
}

func TestFingerprintIsolation(t *testing.T) {
	assert := require.New(t)

	base := NewQuery("blogs").Where("_user", "u1")

	tests := map[string]*Query{
		"different collection":    NewQuery("posts").Where("_user", "u1"),
		"different predicate":     NewQuery("blogs").Where("_user", "u2"),
		"additional predicate":    NewQuery("blogs").Where("_user", "u1").Where("published", true),
		"projection added":        NewQuery("blogs").Where("_user", "u1").Select("title"),
		"sort order added":        NewQuery("blogs").Where("_user", "u1").OrderBy("createdAt", false),
		"different limit":         NewQuery("blogs").Where("_user", "u1").Limit(10),
		"different skip":          NewQuery("blogs").Where("_user", "u1").Skip(20),
		"sort direction reversed": NewQuery("blogs").Where("_user", "u1").OrderBy("createdAt", true),
	}

	fbase, err := defaultFingerprint(base)
	assert.Nil(err)

	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			f, err := defaultFingerprint(q)
			assert.Nil(err)
			assert.NotEqual(fbase, f)
		})
	}
}

func TestFingerprintSortOrderSignificant(t *testing.T) {
	assert := require.New(t)

	a := NewQuery("blogs").OrderBy("createdAt", false).OrderBy("title", false)
	b := NewQuery("blogs").OrderBy("title", false).OrderBy("createdAt", false)

	fa, err := defaultFingerprint(a)
	assert.Nil(err)
	fb, err := defaultFingerprint(b)
	assert.Nil(err)
	assert.NotEqual(fa, fb)
}

func TestDebugFingerprint(t *testing.T) {
	assert := require.New(t)

	tcs := []struct {
		q        *Query
		expected string
	}{
		{
			q:        NewQuery("blogs").Where("_user", "u1"),
			expected: "blogs|_user=u1",
		},
		{
			q: NewQuery("blogs").
				Where("published", true).
				Where("_user", "u1").
				Select("title", "body").
				OrderBy("createdAt", true).
				Limit(10),
			expected: "blogs|_user=u1|published=true|sel:body,title|ord:createdAt:desc|lim:10,skip:0",
		},
		{
			q:        NewQuery("blogs").Where("age", map[string]any{"$gt": 18}),
			expected: "blogs|age=map[$gt:18]",
		},
	}

	for _, tc := range tcs {
		h, err := DebugFingerprint(tc.q)
		assert.Nil(err)
		assert.Equal(tc.expected, h)
	}
}

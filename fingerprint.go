package querycache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
)

// FingerprintFunc derives the cache lookup key for a query. The same
// effective query must always yield the same string regardless of the
// order the descriptor was built in, and queries targeting different
// collections must never collide.
type FingerprintFunc func(q *Query) (string, error)

// canonical is the hashed form of a query. hashstructure folds map
// entries in an order-independent way, which covers the filter tree; the
// projection is order-insensitive and sorted here, while the sort
// sequence stays ordered because sort order is semantically significant.
type canonical struct {
	Collection string
	Filter     map[string]any
	Projection []string
	Sort       []SortField
	Limit      int64
	Skip       int64
}

func defaultFingerprint(q *Query) (string, error) {
	proj := append([]string(nil), q.projection...)
	sort.Strings(proj)

	u64, err := hashstructure.Hash(canonical{
		Collection: q.collection,
		Filter:     q.filter,
		Projection: proj,
		Sort:       q.sort,
		Limit:      q.limit,
		Skip:       q.skip,
	}, hashstructure.FormatV2, nil)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("c%df%dh%s", len(q.collection), len(q.filter), strconv.FormatUint(u64, 10))
	return key, nil
}

// DebugFingerprint returns a readable canonical rendering of the query
// instead of a hash. Useful when inspecting backend keys by hand; not
// recommended for production since keys grow with the query.
func DebugFingerprint(q *Query) (string, error) {
	var b strings.Builder
	b.WriteString(q.collection)

	fields := make([]string, 0, len(q.filter))
	for f := range q.filter {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(&b, "|%s=%v", f, q.filter[f])
	}

	proj := append([]string(nil), q.projection...)
	sort.Strings(proj)
	if len(proj) > 0 {
		b.WriteString("|sel:" + strings.Join(proj, ","))
	}
	for _, s := range q.sort {
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		fmt.Fprintf(&b, "|ord:%s:%s", s.Field, dir)
	}
	if q.limit != 0 || q.skip != 0 {
		fmt.Fprintf(&b, "|lim:%d,skip:%d", q.limit, q.skip)
	}

	return b.String(), nil
}

package client

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/doj-tools/dojsearch/models"
)

// duplicateWindow bounds how many recent document IDs a session keeps
// for repeat detection.
const duplicateWindow = 8192

// duplicateObserver counts repeated document IDs within one search
// session. The endpoint does not guarantee unique IDs across pages
// under its own sort order; repeats are surfaced in the session summary
// but the records themselves are always kept.
type duplicateObserver struct {
	seen    *lru.Cache[string, struct{}]
	repeats int
}

func newDuplicateObserver() *duplicateObserver {
	seen, _ := lru.New[string, struct{}](duplicateWindow) // fails only for non-positive sizes
	return &duplicateObserver{seen: seen}
}

// observe records one document ID. Records without an ID are not
// comparable and never count as repeats.
func (o *duplicateObserver) observe(id string) {
	if id == "" {
		return
	}
	if _, ok := o.seen.Get(id); ok {
		o.repeats++
		return
	}
	o.seen.Add(id, struct{}{})
}

func (o *duplicateObserver) observeAll(docs []*models.Document) {
	for _, d := range docs {
		o.observe(d.DocumentID)
	}
}

package parser

import "github.com/doj-tools/dojsearch/models"

// HasMore reports whether a further results page is worth requesting.
//
// The signal is best-effort. JSON responses carry no explicit next
// marker, so a full page reads as "probably more" and a short page as
// "done"; an endpoint whose total is an exact multiple of the page size
// therefore costs one extra empty-page request. HTML responses are
// trusted only when they show a next affordance, which can under-detect
// on unusual markup. Callers layer caps and empty-page stops on top.
func HasMore(p *models.Page) bool {
	if p == nil || len(p.Documents) == 0 {
		return false
	}
	switch p.Kind {
	case models.PageKindJSON:
		return len(p.Documents) == EndpointPageSize
	case models.PageKindHTML:
		return p.HasNextLink
	default:
		return false
	}
}

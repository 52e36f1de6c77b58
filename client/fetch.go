package client

import (
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// captureKey threads the per-request capture record through the colly
// request context.
const captureKey = "capture"

// capture collects one request's outcome from the collector callbacks.
type capture struct {
	body   []byte
	status int
	err    error
}

func (c *Client) configureHandlers() {
	c.handlersOnce.Do(func() {
		c.collector.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			c.Metrics.IncRequest("started")
		})

		c.collector.OnResponse(func(r *colly.Response) {
			if rec, ok := r.Ctx.GetAny(captureKey).(*capture); ok {
				rec.status = r.StatusCode
				rec.body = append([]byte(nil), r.Body...)
			}
			if start, ok := r.Ctx.GetAny("start").(time.Time); ok {
				c.Metrics.ObserveDuration(time.Since(start))
			}
			c.Metrics.IncRequest("completed")
		})

		c.collector.OnError(func(r *colly.Response, err error) {
			statusCode := 0
			if r != nil {
				statusCode = r.StatusCode
			}
			classified := classifyError(err, statusCode)
			if r != nil && r.Request != nil {
				if rec, ok := r.Request.Ctx.GetAny(captureKey).(*capture); ok {
					rec.status = statusCode
					rec.err = classified
				}
			}
			c.Metrics.IncError(errorTypeLabel(classified))
			c.logger.Error().
				Int("status", statusCode).
				Str("category", errorTypeLabel(classified)).
				Err(err).
				Msg("request error")
		})
	})
}

// fetchPage performs exactly one GET against target and returns the raw
// body with its HTTP status. Failures come back classified; they are
// never folded into an empty body.
func (c *Client) fetchPage(target string) ([]byte, int, error) {
	c.configureHandlers()

	rec := &capture{}
	reqCtx := colly.NewContext()
	reqCtx.Put(captureKey, rec)

	if err := c.collector.Request(http.MethodGet, target, nil, reqCtx, nil); err != nil {
		if rec.err != nil {
			return nil, rec.status, rec.err
		}
		return nil, rec.status, classifyError(err, rec.status)
	}
	return rec.body, rec.status, nil
}

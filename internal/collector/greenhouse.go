package collector

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"
)

const greenhouseHost = "https://boards-api.greenhouse.io"

type greenhouseCollector struct {
	base
}

func (c *greenhouseCollector) Collect(ctx context.Context) ([]Listing, error) {
	return c.collectEach(ctx, c.fetchBoard)
}

func (c *greenhouseCollector) fetchBoard(ctx context.Context, board string) ([]Listing, error) {
	data, err := c.http.getJSON(ctx, c.endpoint(greenhouseHost, "/v1/boards/%s/jobs?content=true", url.PathEscape(board)), nil)
	if err != nil {
		return nil, err
	}

	var listings []Listing
	data.Get("jobs").ForEach(func(_, job gjson.Result) bool {
		description := StripHTML(job.Get("content").String())
		location := job.Get("location.name").String()

		l := c.newListing(job.Get("id").String(), job.Get("title").String(),
			firstString(job, "company_name", "company.name"), description, job.Get("absolute_url").String())
		if l.Company == "" {
			l.Company = board
		}
		l.Location = optional(location)
		l.PostedAt = parseTime(job.Get("updated_at"))
		l.RemoteAllowed = IsRemote(l.Title, location, description)

		listings = append(listings, l)
		return true
	})
	return listings, nil
}

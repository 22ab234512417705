package collector

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"
)

type recruiteeCollector struct {
	base
}

func (c *recruiteeCollector) Collect(ctx context.Context) ([]Listing, error) {
	return c.collectEach(ctx, c.fetchClient)
}

// offersURL puts the client in the subdomain, or in the first path segment when BaseURL is set.
func (c *recruiteeCollector) offersURL(client string) string {
	if c.baseURL != "" {
		return c.baseURL + "/" + url.PathEscape(client) + "/api/offers"
	}
	return "https://" + url.PathEscape(client) + ".recruitee.com/api/offers"
}

func (c *recruiteeCollector) fetchClient(ctx context.Context, client string) ([]Listing, error) {
	data, err := c.http.getJSON(ctx, c.offersURL(client), nil)
	if err != nil {
		return nil, err
	}

	var listings []Listing
	data.Get("offers").ForEach(func(_, job gjson.Result) bool {
		description := StripHTML(job.Get("description").String() + " " + job.Get("requirements").String())
		location := job.Get("location").String()

		l := c.newListing(job.Get("id").String(), job.Get("title").String(),
			firstString(job, "company_name"), description, firstString(job, "careers_url", "careers_apply_url"))
		if l.Company == "" {
			l.Company = client
		}
		if l.ApplyURL == "" && job.Get("slug").String() != "" {
			l.ApplyURL = "https://" + client + ".recruitee.com/o/" + job.Get("slug").String()
		}
		l.Location = optional(location)
		l.Salary = formatSalary(
			job.Get("salary.min").Float(),
			job.Get("salary.max").Float(),
			job.Get("salary.currency").String(),
			job.Get("salary.period").String(),
		)
		l.PostedAt = parseTime(job.Get("published_at"))
		if l.PostedAt == nil {
			l.PostedAt = parseTime(job.Get("created_at"))
		}

		if remote, ok := explicitRemote(job.Get("remote")); ok {
			l.RemoteAllowed = remote
		} else {
			l.RemoteAllowed = IsRemote(l.Title, location, description)
		}

		listings = append(listings, l)
		return true
	})
	return listings, nil
}

package collector

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const leverHost = "https://api.lever.co"

type leverCollector struct {
	base
}

func (c *leverCollector) Collect(ctx context.Context) ([]Listing, error) {
	return c.collectEach(ctx, c.fetchCompany)
}

func (c *leverCollector) fetchCompany(ctx context.Context, company string) ([]Listing, error) {
	data, err := c.http.getJSON(ctx, c.endpoint(leverHost, "/v0/postings/%s?mode=json", url.PathEscape(company)), nil)
	if err != nil {
		return nil, err
	}

	var listings []Listing
	data.ForEach(func(_, job gjson.Result) bool {
		description := firstString(job, "descriptionPlain")
		if description == "" {
			description = job.Get("description").String()
		}
		description = StripHTML(description)
		location := job.Get("categories.location").String()

		l := c.newListing(job.Get("id").String(), job.Get("text").String(), company, description,
			firstString(job, "applyUrl", "hostedUrl"))
		l.Location = optional(location)
		l.PostedAt = parseTime(job.Get("createdAt"))
		l.Salary = formatSalary(
			job.Get("salaryRange.min").Float(),
			job.Get("salaryRange.max").Float(),
			job.Get("salaryRange.currency").String(),
			job.Get("salaryRange.interval").String(),
		)

		switch strings.ToLower(job.Get("workplaceType").String()) {
		case "remote":
			l.RemoteAllowed = true
		case "onsite", "on-site", "hybrid":
			l.RemoteAllowed = false
		default:
			l.RemoteAllowed = IsRemote(l.Title, location, description)
		}

		listings = append(listings, l)
		return true
	})
	return listings, nil
}

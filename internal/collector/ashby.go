package collector

import (
	"context"
	"net/url"

	"github.com/tidwall/gjson"
)

const ashbyHost = "https://api.ashbyhq.com"

type ashbyCollector struct {
	base
}

func (c *ashbyCollector) Collect(ctx context.Context) ([]Listing, error) {
	return c.collectEach(ctx, c.fetchOrg)
}

// fetchOrg accepts both the current "jobs" payload and the older "jobPostings" one.
func (c *ashbyCollector) fetchOrg(ctx context.Context, org string) ([]Listing, error) {
	data, err := c.http.getJSON(ctx, c.endpoint(ashbyHost, "/posting-api/job-board/%s?includeCompensation=true", url.PathEscape(org)), nil)
	if err != nil {
		return nil, err
	}

	jobs := data.Get("jobs")
	if !jobs.IsArray() {
		jobs = data.Get("jobPostings")
	}

	var listings []Listing
	jobs.ForEach(func(_, job gjson.Result) bool {
		description := firstString(job, "descriptionPlain")
		if description == "" {
			description = StripHTML(firstString(job, "descriptionHtml", "description"))
		}
		location := firstString(job, "location", "locationName")

		l := c.newListing(job.Get("id").String(), job.Get("title").String(), org, description,
			firstString(job, "jobUrl", "jobPostingUrl", "applyUrl"))
		if l.ApplyURL == "" {
			l.ApplyURL = "https://jobs.ashbyhq.com/" + url.PathEscape(org) + "/" + job.Get("id").String()
		}
		l.Location = optional(location)
		l.Salary = optional(firstString(job, "compensation.compensationTierSummary", "compensation.scrapeableCompensationSalarySummary"))
		l.PostedAt = parseTime(job.Get("publishedAt"))
		if l.PostedAt == nil {
			l.PostedAt = parseTime(job.Get("publishedDate"))
		}

		if remote, ok := explicitRemote(job.Get("isRemote")); ok {
			l.RemoteAllowed = remote
		} else {
			l.RemoteAllowed = IsRemote(l.Title, location, description)
		}

		listings = append(listings, l)
		return true
	})
	return listings, nil
}

package collector

import (
	"context"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const (
	smartRecruitersHost     = "https://api.smartrecruiters.com"
	smartRecruitersPageSize = 100
	smartRecruitersMaxPages = 20
)

type smartRecruitersCollector struct {
	base
	token string
}

func (c *smartRecruitersCollector) Collect(ctx context.Context) ([]Listing, error) {
	return c.collectEach(ctx, c.fetchCompany)
}

func (c *smartRecruitersCollector) headers() map[string]string {
	if c.token == "" {
		return nil
	}
	return map[string]string{"X-SmartToken": c.token}
}

func (c *smartRecruitersCollector) fetchCompany(ctx context.Context, company string) ([]Listing, error) {
	var listings []Listing
	for page := 0; page < smartRecruitersMaxPages; page++ {
		offset := page * smartRecruitersPageSize
		data, err := c.http.getJSON(ctx, c.endpoint(smartRecruitersHost, "/v1/companies/%s/postings?limit=%d&offset=%d",
			url.PathEscape(company), smartRecruitersPageSize, offset), c.headers())
		if err != nil {
			return listings, err
		}

		content := data.Get("content").Array()
		for _, job := range content {
			listings = append(listings, c.toListing(ctx, company, job))
		}

		total := int(data.Get("totalFound").Int())
		if len(content) == 0 || offset+len(content) >= total {
			break
		}
	}
	return listings, nil
}

func (c *smartRecruitersCollector) toListing(ctx context.Context, company string, job gjson.Result) Listing {
	description := jobAdText(job)
	if description == "" {
		if ref := job.Get("ref").String(); ref != "" && c.trustedRef(ref) {
			detail, err := c.http.getJSON(ctx, ref, c.headers())
			if err != nil {
				c.logger.Debug().Err(err).Str("posting", job.Get("id").String()).Msg("posting detail unavailable")
			} else {
				description = jobAdText(detail)
			}
		}
	}
	location := firstString(job, "location.city", "location.fullLocation", "location.country")

	l := c.newListing(job.Get("id").String(), job.Get("name").String(),
		firstString(job, "company.name"), description,
		"https://jobs.smartrecruiters.com/"+url.PathEscape(company)+"/"+job.Get("id").String())
	if l.Company == "" {
		l.Company = company
	}
	l.Location = optional(location)
	l.PostedAt = parseTime(job.Get("releasedDate"))

	if remote, ok := explicitRemote(job.Get("location.remote")); ok {
		l.RemoteAllowed = remote
	} else {
		l.RemoteAllowed = IsRemote(l.Title, location, description)
	}
	return l
}

// trustedRef reports whether ref points at the API host, so the token never leaves it.
func (c *smartRecruitersCollector) trustedRef(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return false
	}
	host := smartRecruitersHost
	if c.baseURL != "" {
		host = c.baseURL
	}
	want, err := url.Parse(host)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Scheme, want.Scheme) && strings.EqualFold(u.Host, want.Host)
}

func jobAdText(r gjson.Result) string {
	var parts []string
	for _, section := range []string{"jobDescription", "qualifications"} {
		if text := r.Get("jobAd.sections." + section + ".text").String(); text != "" {
			parts = append(parts, text)
		}
	}
	return StripHTML(strings.Join(parts, " "))
}

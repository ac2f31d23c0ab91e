package pages

import (
	"net/url"

	"github.com/bryan-buckman/jobdesk/internal/model"
	"github.com/bryan-buckman/jobdesk/internal/seed"
	"github.com/bryan-buckman/jobdesk/internal/state"
)

// CompanyItem is a listing with its link into the job list.
type CompanyItem struct {
	model.CompanyListing
	JobsURL     string `json:"jobsUrl"`
	CatalogJobs int    `json:"catalogJobs"`
}

// CompaniesPage lists employers.
type CompaniesPage struct {
	base
	store *state.Store
}

func NewCompaniesPage(d Deps) *CompaniesPage {
	d = d.withDefaults()
	return &CompaniesPage{base: newBase(d, "companies"), store: d.Store}
}

// JobsURL links to the home list pre-filtered to company.
func JobsURL(company string) string {
	u := url.URL{Path: "/", RawQuery: url.Values{"company": {company}}.Encode()}
	return u.String()
}

// View lists the companies with how many catalog jobs each has.
func (p *CompaniesPage) View() []CompanyItem {
	catalog := p.store.GetState().Jobs.Catalog
	listings := seed.Companies()
	out := make([]CompanyItem, 0, len(listings))
	for _, c := range listings {
		n := 0
		for _, j := range catalog {
			if j.Company.Name == c.Name {
				n++
			}
		}
		out = append(out, CompanyItem{CompanyListing: c, JobsURL: JobsURL(c.Name), CatalogJobs: n})
	}
	return out
}

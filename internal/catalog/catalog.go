// Package catalog provides the secondary job-catalog source: an HTTP listing
// endpoint consulted only when the primary store yields no active jobs.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobmatch/internal/db"
)

// DefaultTimeout is the default HTTP request timeout for listing fetches.
const DefaultTimeout = 30 * time.Second

// DefaultListingURL is the fixed local endpoint for the fallback listing.
const DefaultListingURL = "http://localhost:8081/api/jobs"

// Client fetches job listings from the fallback endpoint.
type Client struct {
	httpClient *http.Client
	url        string
}

// NewClient creates a listing client. A nil httpClient gets a default with
// DefaultTimeout; an empty url gets DefaultListingURL.
func NewClient(httpClient *http.Client, url string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if url == "" {
		url = DefaultListingURL
	}
	return &Client{httpClient: httpClient, url: url}
}

// listingResponse is the wire format of the fallback listing endpoint.
type listingResponse struct {
	Jobs []listingJob `json:"jobs"`
}

type listingJob struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	RequiredSkills string    `json:"required_skills"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// ListActiveJobs fetches the listing and returns only active postings.
func (c *Client) ListActiveJobs(ctx context.Context) ([]db.JobPosting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build listing request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("job listing returned status %d", resp.StatusCode)
	}

	var listing listingResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode job listing: %w", err)
	}

	var jobs []db.JobPosting
	for _, j := range listing.Jobs {
		if !j.Active {
			continue
		}
		jobs = append(jobs, db.JobPosting{
			ID:             j.ID,
			Title:          j.Title,
			Description:    j.Description,
			RequiredSkills: j.RequiredSkills,
			Active:         j.Active,
			CreatedAt:      j.CreatedAt,
		})
	}
	return jobs, nil
}

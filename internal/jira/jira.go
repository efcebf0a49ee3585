// Package jira provides JIRA integration for fetching issues and their
// work logs.
package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/djw8605/metric-tools/internal/model"
)

// BaseURL is the JIRA instance base URL.
const BaseURL = "https://opensciencegrid.atlassian.net"

// SearchJQL selects the fixed issue population the report covers.
const SearchJQL = "project = HTCONDOR AND type = Improvement"

// pageSize is the maxResults value sent with paginated requests.
const pageSize = 50

// Client is a read-only JIRA REST API client. The instance serves the
// queried project anonymously, so no credentials are attached.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the given JIRA base URL. An empty
// baseURL selects the default instance.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// searchResponse represents one page of the JIRA search API response.
type searchResponse struct {
	StartAt    int `json:"startAt"`
	MaxResults int `json:"maxResults"`
	Total      int `json:"total"`
	Issues     []struct {
		Key    string `json:"key"`
		Fields struct {
			Summary  string `json:"summary"`
			Subtasks []struct {
				Key    string `json:"key"`
				Fields struct {
					Summary string `json:"summary"`
				} `json:"fields"`
			} `json:"subtasks"`
		} `json:"fields"`
	} `json:"issues"`
}

// worklogResponse represents one page of an issue's work log listing.
type worklogResponse struct {
	StartAt    int `json:"startAt"`
	MaxResults int `json:"maxResults"`
	Total      int `json:"total"`
	Worklogs   []struct {
		Author struct {
			DisplayName string `json:"displayName"`
		} `json:"author"`
		Started          string `json:"started"`
		TimeSpentSeconds int    `json:"timeSpentSeconds"`
	} `json:"worklogs"`
}

// SearchIssues fetches every issue matching SearchJQL, following
// pagination until the reported total is exhausted. Issues arrive in the
// server's result order, which downstream traversal preserves.
func (c *Client) SearchIssues(ctx context.Context) ([]model.Issue, error) {
	var issues []model.Issue
	for startAt := 0; ; {
		query := url.Values{
			"jql":        {SearchJQL},
			"fields":     {"summary,subtasks"},
			"startAt":    {strconv.Itoa(startAt)},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		apiURL := fmt.Sprintf("%s/rest/api/2/search?%s", c.baseURL, query.Encode())

		var page searchResponse
		if err := c.getJSON(ctx, apiURL, &page); err != nil {
			return nil, fmt.Errorf("failed to search issues: %w", err)
		}

		for _, raw := range page.Issues {
			issue := model.Issue{
				IssueRef: model.IssueRef{Key: raw.Key, Summary: raw.Fields.Summary},
			}
			for _, sub := range raw.Fields.Subtasks {
				issue.Subtasks = append(issue.Subtasks, model.IssueRef{
					Key:     sub.Key,
					Summary: sub.Fields.Summary,
				})
			}
			issues = append(issues, issue)
		}

		startAt += len(page.Issues)
		if startAt >= page.Total || len(page.Issues) == 0 {
			break
		}
	}
	return issues, nil
}

// Worklogs fetches all work-log entries for an issue or subtask, in the
// order the server returns them.
func (c *Client) Worklogs(ctx context.Context, issueKey string) ([]model.WorkLogRecord, error) {
	var records []model.WorkLogRecord
	for startAt := 0; ; {
		query := url.Values{
			"startAt":    {strconv.Itoa(startAt)},
			"maxResults": {strconv.Itoa(pageSize)},
		}
		apiURL := fmt.Sprintf("%s/rest/api/2/issue/%s/worklog?%s",
			c.baseURL, url.PathEscape(issueKey), query.Encode())

		var page worklogResponse
		if err := c.getJSON(ctx, apiURL, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch work log for %s: %w", issueKey, err)
		}

		for _, raw := range page.Worklogs {
			records = append(records, model.WorkLogRecord{
				Author:           raw.Author.DisplayName,
				Started:          raw.Started,
				TimeSpentSeconds: raw.TimeSpentSeconds,
			})
		}

		startAt += len(page.Worklogs)
		if startAt >= page.Total || len(page.Worklogs) == 0 {
			break
		}
	}
	return records, nil
}

// getJSON performs a GET request and decodes the JSON response into v.
func (c *Client) getJSON(ctx context.Context, apiURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JIRA API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

package github

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/e-comet/ghcollector/collector"
)

const (
	maxPerPage     = 100
	activityWindow = 24 * time.Hour
)

// Getter makes a single rate limited call to the GitHub API and decodes
// the response into out. The fetch.Fetcher satisfies it.
type Getter interface {
	Get(ctx context.Context, target string, params url.Values, out any) error
}

// Source lists the most starred repositories and enriches them with their
// details and the commits of the last day.
type Source struct {
	getter Getter
	now    func() time.Time
}

// NewSource returns a new Source.
func NewSource(g Getter) *Source {
	return &Source{
		getter: g,
		now:    time.Now,
	}
}

type owner struct {
	Login string `json:"login"`
}

type repository struct {
	Name            string  `json:"name"`
	Owner           owner   `json:"owner"`
	StargazersCount int     `json:"stargazers_count"`
	WatchersCount   int     `json:"watchers_count"`
	ForksCount      int     `json:"forks_count"`
	Language        *string `json:"language"`
}

type searchResult struct {
	Items []repository `json:"items"`
}

type commit struct {
	Commit struct {
		Author *struct {
			Name string `json:"name"`
		} `json:"author"`
	} `json:"commit"`
}

// List satisfies collector.Lister interface.
func (s *Source) List(ctx context.Context, limit int) ([]collector.Item, error) {
	params := url.Values{}
	params.Set("q", "stars:>1")
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", strconv.Itoa(min(limit, maxPerPage)))

	var res searchResult
	if err := s.getter.Get(ctx, "/search/repositories", params, &res); err != nil {
		return nil, err
	}

	items := make([]collector.Item, 0, len(res.Items))
	for _, r := range res.Items {
		items = append(items, collector.Item{Owner: r.Owner.Login, Name: r.Name})
	}

	return items, nil
}

// Detail satisfies collector.Enricher interface.
func (s *Source) Detail(ctx context.Context, item collector.Item) (collector.Detail, error) {
	var r repository
	if err := s.getter.Get(ctx, repoPath(item), nil, &r); err != nil {
		return collector.Detail{}, err
	}

	return collector.Detail{
		Stars:    r.StargazersCount,
		Watchers: r.WatchersCount,
		Forks:    r.ForksCount,
		Language: r.Language,
	}, nil
}

// Activity satisfies collector.Enricher interface. Only the first page of
// the commits of the last day is read.
func (s *Source) Activity(ctx context.Context, item collector.Item) ([]collector.Commit, error) {
	params := url.Values{}
	params.Set("since", s.now().UTC().Add(-activityWindow).Format(time.RFC3339))
	params.Set("per_page", strconv.Itoa(maxPerPage))

	var res []commit
	if err := s.getter.Get(ctx, repoPath(item)+"/commits", params, &res); err != nil {
		return nil, err
	}

	commits := make([]collector.Commit, 0, len(res))
	for _, c := range res {
		var author string
		if c.Commit.Author != nil {
			author = c.Commit.Author.Name
		}
		commits = append(commits, collector.Commit{Author: author})
	}

	return commits, nil
}

func repoPath(item collector.Item) string {
	return "/repos/" + url.PathEscape(item.Owner) + "/" + url.PathEscape(item.Name)
}

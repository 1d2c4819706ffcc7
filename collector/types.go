package collector

import "sort"

// UnknownAuthor is the author of the commits without an author name.
const UnknownAuthor = "Unknown"

// Item is a listed repository.
type Item struct {
	Owner string
	Name  string
}

// FullName returns the owner/name form of the item.
func (i Item) FullName() string { return i.Owner + "/" + i.Name }

// Detail is the detail of an item.
type Detail struct {
	Stars    int
	Watchers int
	Forks    int
	Language *string
}

// Commit is a single commit of the item activity.
type Commit struct {
	Author string
}

// AuthorCommits is the number of commits of a single author.
type AuthorCommits struct {
	Author     string `json:"author"`
	CommitsNum int    `json:"commits_num"`
}

// Repository is a collected item.
type Repository struct {
	Name                   string          `json:"name"`
	Owner                  string          `json:"owner"`
	Position               int             `json:"position"`
	Stars                  int             `json:"stars"`
	Watchers               int             `json:"watchers"`
	Forks                  int             `json:"forks"`
	Language               *string         `json:"language"`
	AuthorsCommitsNumToday []AuthorCommits `json:"authors_commits_num_today"`
}

// SummarizeAuthors groups the commits by author, sorted by number of commits
// descending. Authors with the same number of commits keep the order of their
// first commit.
func SummarizeAuthors(commits []Commit) []AuthorCommits {
	summary := []AuthorCommits{}
	index := map[string]int{}
	for _, c := range commits {
		author := c.Author
		if author == "" {
			author = UnknownAuthor
		}

		i, ok := index[author]
		if !ok {
			i = len(summary)
			index[author] = i
			summary = append(summary, AuthorCommits{Author: author})
		}
		summary[i].CommitsNum++
	}

	sort.SliceStable(summary, func(i, j int) bool {
		return summary[i].CommitsNum > summary[j].CommitsNum
	})

	return summary
}

package content

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeTag is the one normalization applied to a tag wherever it is
// used as a key: tag index, tag routes, tag pages and tag filters.
func NormalizeTag(tag string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Lower(language.Und).String(strings.TrimSpace(tag))
}

// SortedPosts returns the non-draft articles ordered by publish date,
// newest first. Articles with equal dates keep their input order.
func SortedPosts(articles []Article) []Article {
	posts := make([]Article, 0, len(articles))
	for _, a := range articles {
		if !a.Draft {
			posts = append(posts, a)
		}
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PubDate.After(posts[j].PubDate)
	})
	return posts
}

// SortedProjects orders projects featured-first, then by publish date,
// newest first. The input slice is not modified.
func SortedProjects(projects []Project) []Project {
	out := make([]Project, len(projects))
	copy(out, projects)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Featured != out[j].Featured {
			return out[i].Featured
		}
		return out[i].PubDate.After(out[j].PubDate)
	})
	return out
}

// TagIndex maps a normalized tag to the number of documents carrying it.
type TagIndex map[string]int

// AllTags builds the tag index from every non-draft article and every project.
func AllTags(articles []Article, projects []Project) TagIndex {
	idx := make(TagIndex)
	for _, a := range articles {
		if a.Draft {
			continue
		}
		idx.add(a.Tags)
	}
	for _, p := range projects {
		idx.add(p.Tags)
	}
	return idx
}

func (idx TagIndex) add(tags []string) {
	for _, t := range tags {
		key := NormalizeTag(t)
		if key == "" {
			continue
		}
		idx[key]++
	}
}

// Keys returns the tags in lexical order.
func (idx TagIndex) Keys() []string {
	keys := make([]string, 0, len(idx))
	for k := range idx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Count returns how many documents carry tag, matching case-insensitively.
func (idx TagIndex) Count(tag string) int {
	return idx[NormalizeTag(tag)]
}

// HasTag reports whether tags contains tag under NormalizeTag.
func HasTag(tags []string, tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

// PostsWithTag filters posts down to those carrying tag.
func PostsWithTag(posts []Article, tag string) []Article {
	var out []Article
	for _, p := range posts {
		if HasTag(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out
}

// ProjectsWithTag filters projects down to those carrying tag.
func ProjectsWithTag(projects []Project, tag string) []Project {
	var out []Project
	for _, p := range projects {
		if HasTag(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out
}

// RelatedPosts finds posts that share at least one tag with current.
func RelatedPosts(current Article, posts []Article) []Article {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := NormalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Article
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[NormalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

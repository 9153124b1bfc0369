package versioneers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/EmundoT/rebase-helper/internal/hostdetect"
	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
)

const DefaultGitHubURL = "https://github.com"

const archiveExt = `(?:\.tar\.gz|\.tar\.bz2|\.tar\.xz|\.tar\.zst|\.tgz|\.tar|\.zip)`

var (
	archiveRe   = regexp.MustCompile(`^(.+?)-v?(\d[\w.~^+]*?)` + archiveExt + `$`)
	githubTagRe = regexp.MustCompile(`/(?:archive/refs/tags|releases/tag)/v?(\d[\w.~^+-]*?)` + archiveExt + `?$`)
)

// DirIndex scrapes the page the Source0 archive is published on: the
// GitHub tags page for GitHub projects, the directory listing otherwise.
type DirIndex struct {
	plugins.Info
	client    *Client
	githubURL string
}

func NewDirIndex(client *Client, githubURL string) *DirIndex {
	if githubURL == "" {
		githubURL = DefaultGitHubURL
	}
	return &DirIndex{
		Info:      plugins.Info{PluginName: "dirindex", Default: true},
		client:    client,
		githubURL: strings.TrimRight(githubURL, "/"),
	}
}

func (d *DirIndex) Latest(ctx context.Context, q plugins.VersionQuery) (string, error) {
	if q.SourceURL == "" {
		return "", nil
	}
	if info := hostdetect.FromURL(q.SourceURL); info != nil && info.Provider == hostdetect.ProviderGitHub {
		return d.githubTags(ctx, info)
	}

	u, err := url.Parse(q.SourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", nil
	}
	m := archiveRe.FindStringSubmatch(path.Base(u.Path))
	if m == nil {
		return "", nil
	}
	linkRe := regexp.MustCompile(`^` + regexp.QuoteMeta(m[1]) + `-v?(\d[\w.~^+]*?)` + archiveExt + `$`)
	u.Path = path.Dir(u.Path) + "/"
	u.RawQuery, u.Fragment = "", ""

	links, err := d.links(ctx, u.String())
	if err != nil || links == nil {
		return "", err
	}
	var versions []string
	for _, href := range links {
		if lm := linkRe.FindStringSubmatch(path.Base(href)); lm != nil {
			versions = append(versions, lm[1])
		}
	}
	return rpmver.Highest(versions), nil
}

func (d *DirIndex) githubTags(ctx context.Context, info *hostdetect.Info) (string, error) {
	links, err := d.links(ctx, fmt.Sprintf("%s/%s/%s/tags", d.githubURL, info.Owner, info.Repo))
	if err != nil || links == nil {
		return "", err
	}
	var versions []string
	for _, href := range links {
		if m := githubTagRe.FindStringSubmatch(href); m != nil {
			versions = append(versions, m[1])
		}
	}
	return rpmver.Highest(versions), nil
}

// links returns every href on page, or nil when the page does not exist.
func (d *DirIndex) links(ctx context.Context, page string) ([]string, error) {
	body, err := d.client.get(ctx, page, "text/html")
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", page, err)
	}
	links := []string{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links, nil
}

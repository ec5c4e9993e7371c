// Package nav models page navigation as an explicit per-request context.
package nav

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPage is returned for page names that do not exist.
var ErrUnknownPage = errors.New("unknown page")

// Page names a dashboard page.
type Page string

// Dashboard pages.
const (
	Main    Page = "main"
	Details Page = "details"
	Treemap Page = "treemap"
	State   Page = "state"
)

// Link points at a page.
type Link struct {
	Page  Page   `json:"page"`
	Path  string `json:"path"`
	Title string `json:"title"`
	Label string `json:"label,omitempty"`
}

var pages = []Link{
	{Page: Main, Path: "/", Title: "U.S. Ocean Economy"},
	{Page: Details, Path: "/details", Title: "Economic Contribution Details"},
	{Page: Treemap, Path: "/treemap", Title: "Economic Contribution by Impact Type"},
	{Page: State, Path: "/state", Title: "State Ocean Economy"},
}

// Pages returns every page in menu order.
func Pages() []Link { return append([]Link(nil), pages...) }

// ParsePage resolves a page name; the empty string is the main page.
func ParsePage(s string) (Page, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Main, nil
	}
	for _, l := range pages {
		if string(l.Page) == s {
			return l.Page, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// FromPath resolves the page served at an URL path.
func FromPath(path string) (Page, error) {
	if path == "" || path == "/" {
		return Main, nil
	}
	return ParsePage(strings.Trim(path, "/"))
}

// Context is the navigation state of one render pass. Pages read it and never
// change it.
type Context struct {
	Current Page   `json:"current"`
	Menu    []Link `json:"menu"`
	Buttons []Link `json:"buttons"`
}

// New builds the navigation context for p.
func New(p Page) (Context, error) {
	if _, err := ParsePage(string(p)); err != nil {
		return Context{}, err
	}
	return Context{Current: p, Menu: Pages(), Buttons: buttons(p)}, nil
}

// Title returns the heading of the current page.
func (c Context) Title() string {
	return link(c.Current).Title
}

// Path returns the URL path of the current page.
func (c Context) Path() string {
	return link(c.Current).Path
}

func buttons(p Page) []Link {
	switch p {
	case Main:
		return []Link{withLabel(Details, "View More Data")}
	case Details:
		return []Link{withLabel(Main, "Back to Main Page"), withLabel(Treemap, "View by Impact Type")}
	default:
		return []Link{withLabel(Main, "Back to Main Page")}
	}
}

func withLabel(p Page, label string) Link {
	l := link(p)
	l.Label = label
	return l
}

func link(p Page) Link {
	for _, l := range pages {
		if l.Page == p {
			return l
		}
	}
	return pages[0]
}

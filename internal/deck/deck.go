// Package deck loads the pages shown by the tab view.
package deck

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDeck is returned when a source yields no pages.
var ErrEmptyDeck = errors.New("deck has no pages")

// Page is one tab and its content.
type Page struct {
	Label string `yaml:"label"`
	Body  string `yaml:"body"`
}

// TabLabel implements scenes.Scene.
func (p Page) TabLabel() string {
	return p.Label
}

type yamlDeck struct {
	Pages []Page `yaml:"pages"`
}

// Load reads a deck from path, picking the format from the extension.
func Load(path string) ([]Page, error) {
	var (
		pages []Page
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		pages, err = loadYAML(path)
	case ".pdf":
		pages, err = loadPDF(path)
	default:
		pages, err = loadText(path)
	}
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDeck)
	}
	return pages, nil
}

func loadYAML(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	var d yamlDeck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse deck %s: %w", path, err)
	}
	for i := range d.Pages {
		d.Pages[i].Label = strings.TrimSpace(d.Pages[i].Label)
		if d.Pages[i].Label == "" {
			d.Pages[i].Label = defaultLabel(i)
		}
	}
	return d.Pages, nil
}

func loadText(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deck: %w", err)
	}
	return ParseText(string(data)), nil
}

var separatorLine = regexp.MustCompile(`(?m)^---[ \t]*$`)

// ParseText splits text into pages on lines holding only "---". A page's
// label is its first "# " heading, which is dropped from the body.
func ParseText(text string) []Page {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var pages []Page
	for _, chunk := range separatorLine.Split(text, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		label := ""
		lines := strings.Split(chunk, "\n")
		for i, line := range lines {
			if heading, ok := strings.CutPrefix(line, "# "); ok {
				label = strings.TrimSpace(heading)
				lines = append(lines[:i:i], lines[i+1:]...)
				break
			}
		}
		if label == "" {
			label = defaultLabel(len(pages))
		}
		pages = append(pages, Page{Label: label, Body: strings.TrimSpace(strings.Join(lines, "\n"))})
	}
	return pages
}

func defaultLabel(index int) string {
	return "Page " + strconv.Itoa(index+1)
}

// Default is the deck shown when no deck is configured.
func Default() []Page {
	return []Page{
		{Label: "Home", Body: "Swipe with h and l, or press tab to jump to the next page. The underline follows the page offset while you drag."},
		{Label: "News", Body: "Tabs have different widths. The underline stretches between neighbours as the offset moves."},
		{Label: "Sport", Body: "Only the pages around the current one are mounted. Pages you have visited stay mounted."},
		{Label: "Music & Podcasts", Body: "Long labels push the tab strip past the viewport so the bar scrolls to keep the active tab centered."},
		{Label: "Games", Body: "Press : and type a label to jump to the closest tab."},
		{Label: "Weather", Body: "Resize the terminal and the current page realigns on the next frame."},
		{Label: "A", Body: "Narrow tabs work too."},
		{Label: "Settings", Body: "Options come from flags, the config file or TABVIEW_ environment variables."},
	}
}

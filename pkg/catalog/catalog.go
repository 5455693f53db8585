// Package catalog fetches the file-list index that names every dataset date
// the pipeline has published. The index is the first thing the client needs
// and the least critical to have: when it cannot be fetched or parsed, an
// empty catalog is returned so the initial render is never blocked.
package catalog

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/dailyview/internal/source"
	"github.com/vanderheijden86/dailyview/pkg/model"
)

// IndexPath is the location of the catalog within the data tree.
const IndexPath = "data/file-list.json"

// Options configures a Client.
type Options struct {
	// WarningHandler receives a diagnostic when the index fetch fails and
	// the empty catalog is substituted. If nil, warnings go to os.Stderr.
	WarningHandler func(string)
}

// Client fetches the catalog.
type Client struct {
	src  source.Source
	warn func(string)
}

// New creates a catalog client over src.
func New(src source.Source, opts Options) *Client {
	warn := opts.WarningHandler
	if warn == nil {
		warn = func(msg string) {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
		}
	}
	return &Client{src: src, warn: warn}
}

// Get fetches and parses the index. It never returns an error: on any
// failure (absent index, transport failure, malformed body) it warns and
// returns the empty catalog, because a missing index must not be
// distinguishable from a new deployment with no data yet.
func (c *Client) Get(ctx context.Context) model.Catalog {
	body, err := c.src.Fetch(ctx, IndexPath)
	if err != nil {
		c.warn(fmt.Sprintf("catalog unavailable: %v", err))
		return model.EmptyCatalog()
	}

	var cat model.Catalog
	if err := json.Unmarshal(body, &cat); err != nil {
		c.warn(fmt.Sprintf("catalog malformed: %v", err))
		return model.EmptyCatalog()
	}
	if cat.Papers == nil {
		cat.Papers = []string{}
	}
	if cat.News == nil {
		cat.News = []string{}
	}
	if cat.Reports == nil {
		cat.Reports = []string{}
	}
	return cat
}

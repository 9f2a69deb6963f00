// Package notify broadcasts operator alerts to the Shoutrrr URLs (ntfy,
// Discord, Slack, SMTP, ...) configured in CATALOGSYNC_NOTIFY_URLS.
//
// Sends run in the background. Failures are logged and never propagate:
// an alert must not block the catalog reload that raised it.
package notify

import (
	"log"
	"strings"
	"sync"

	"github.com/containrrr/shoutrrr"
)

// Notifier sends alerts to a fixed set of Shoutrrr URLs.
type Notifier struct {
	urls []string
	send func(url, body string) error
	wg   sync.WaitGroup
}

// New creates a Notifier for a comma- or newline-separated URL list. An
// empty list yields a Notifier that drops every message.
func New(urls string) *Notifier {
	return &Notifier{urls: parseURLs(urls), send: shoutrrr.Send}
}

// Enabled reports whether any URL is configured.
func (n *Notifier) Enabled() bool {
	return n != nil && len(n.urls) > 0
}

// Broadcast sends body to every configured URL.
func (n *Notifier) Broadcast(body string) {
	if !n.Enabled() || body == "" {
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		for _, u := range n.urls {
			if err := n.send(u, body); err != nil {
				log.Printf("notify: broadcast send failed for url %q: %v", maskURL(u), err)
			}
		}
	}()
}

// Wait blocks until all pending broadcasts finish.
func (n *Notifier) Wait() {
	if n != nil {
		n.wg.Wait()
	}
}

func parseURLs(urlsStr string) []string {
	urlsStr = strings.ReplaceAll(urlsStr, "\n", ",")
	var urls []string
	for _, p := range strings.Split(urlsStr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			urls = append(urls, p)
		}
	}
	return urls
}

// maskURL hides credentials in a Shoutrrr URL for logging.
func maskURL(u string) string {
	scheme, _, ok := strings.Cut(u, "://")
	if !ok {
		return "••••"
	}
	return scheme + "://••••"
}

package clientrpc

import (
	"net/url"
	"strings"
	"sync"

	"github.com/levenlabs/go-srvclient"
)

// RemoteService can be implemented by contract types to declare the base
// path their methods are served under. It is consulted when a proxy is
// built without an explicit base url: the declared path is read once from
// the newly built instance, normalized, and fixed for the proxy's lifetime
// before any call can be dispatched.
type RemoteService interface {
	BasePath() string
}

// name of the RemoteService method, which contract fields may not shadow
const basePathMethod = "BasePath"

// NormalizeBasePath appends a trailing slash to p when it has none, so that
// method names can be appended directly. It is idempotent.
func NormalizeBasePath(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// basePath is a write-once cell holding the url prefix shared by every
// method closure of one proxy. In self-declared mode it stays empty until
// the declared path has been read back through the built instance, so the
// closures always load it fresh instead of capturing its value.
type basePath struct {
	mu   sync.RWMutex
	path string
	set  bool
}

func (b *basePath) load() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.path
}

// store commits the resolved path. Only the first write wins.
func (b *basePath) store(p string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.set {
		return
	}
	b.path = p
	b.set = true
}

// resolveHost returns rawurl with its host swapped for the target of its
// DNS SRV record, when one exists. The url is returned untouched on any
// failure. Resolution happens per call so that repeated calls balance
// across SRV targets.
func resolveHost(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil || u.Host == "" {
		return rawurl
	}
	host, err := srvclient.SRV(u.Host)
	if err != nil {
		return rawurl
	}
	u.Host = host
	return u.String()
}

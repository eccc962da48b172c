// Package remote converts git remote URLs into URLs a browser can open.
package remote

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnsupportedRemote is returned for remotes that have no web page,
// such as local paths.
var ErrUnsupportedRemote = errors.New("unsupported remote url")

// BrowserURL returns the https page for a git remote.
//
//	https://github.com/owner/repo.git    -> https://github.com/owner/repo
//	git@github.com:owner/repo.git        -> https://github.com/owner/repo
//	https://host:8443/owner/repo.git     -> https://host:8443/owner/repo
//	ssh://git@host:2222/owner/repo.git   -> https://host/owner/repo
//	git://host/owner/repo                -> https://host/owner/repo
func BrowserURL(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", ErrUnsupportedRemote
	}

	if !strings.Contains(remote, "://") {
		return scpLikeURL(remote)
	}

	u, err := url.Parse(remote)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedRemote, err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRemote, remote)
	}

	switch u.Scheme {
	case "http", "https":
		// The web server listens on the remote's port
		return build(u.Scheme, u.Host, u.Path)
	case "ssh", "git", "git+ssh", "ssh+git":
		return build("https", u.Hostname(), u.Path)
	default:
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedRemote, u.Scheme)
	}
}

// scpLikeURL handles the "[user@]host:path" form used by ssh remotes
func scpLikeURL(remote string) (string, error) {
	hostPart, path, ok := strings.Cut(remote, ":")
	if !ok || hostPart == "" || strings.Contains(hostPart, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedRemote, remote)
	}

	if at := strings.LastIndex(hostPart, "@"); at != -1 {
		hostPart = hostPart[at+1:]
	}
	return build("https", hostPart, path)
}

func build(scheme, host, path string) (string, error) {
	path = strings.Trim(path, "/")
	path = strings.TrimSuffix(path, ".git")
	if host == "" || path == "" {
		return "", ErrUnsupportedRemote
	}
	return scheme + "://" + host + "/" + path, nil
}

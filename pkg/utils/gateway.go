package utils

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

const ipfsScheme = "ipfs://"

// Gateway turns content references into fetchable URLs.
type Gateway struct {
	Host string
}

func NewGateway(host string) Gateway {
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	return Gateway{Host: strings.TrimRight(host, "/")}
}

// URL resolves ref. data: and http(s) values pass through, ipfs:// URIs and
// bare identifiers are rewritten to https://<host>/ipfs/<id>.
func (g Gateway) URL(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, "data:"), strings.HasPrefix(ref, "http"):
		return ref
	case strings.HasPrefix(ref, ipfsScheme):
		return g.prefix(strings.TrimPrefix(ref, ipfsScheme))
	default:
		return g.prefix(ref)
	}
}

func (g Gateway) prefix(id string) string {
	return "https://" + g.Host + "/ipfs/" + strings.TrimLeft(id, "/")
}

// DecodeDataURL returns the payload and media type of a data: URL.
func DecodeDataURL(ref string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return nil, "", fmt.Errorf("not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URL")
	}

	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if isBase64 {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data URL: %w", err)
		}
		return data, mediaType, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return nil, "", fmt.Errorf("decode data URL: %w", err)
	}
	return []byte(unescaped), mediaType, nil
}

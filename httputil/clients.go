package httputil

import (
	"net/http"
	"time"
)

type Clients struct {
	LinkCheck *http.Client // no redirects, for probing listing pages
	API       *http.Client // direct, for our own and third-party APIs
}

func NewClients() *Clients {
	linkCheck := &http.Client{
		Timeout: 15 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Clients{
		LinkCheck: linkCheck,
		API:       &http.Client{Timeout: 30 * time.Second},
	}
}

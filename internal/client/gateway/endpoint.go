package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/catalogkeeper/internal/common"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
	"github.com/dmitrijs2005/catalogkeeper/internal/netx"
)

// SnapshotEndpoint stores one shared snapshot.
type SnapshotEndpoint interface {
	// Fetch returns (nil, nil) when nothing has been stored yet.
	Fetch(ctx context.Context) (*models.Snapshot, error)
	Store(ctx context.Context, snap models.Snapshot) error
}

// HTTPSnapshotEndpoint keeps the snapshot at the server's shared-data resource.
type HTTPSnapshotEndpoint struct {
	url   string
	token string
	http  *http.Client
}

func NewHTTPSnapshotEndpoint(baseURL, token string, timeout time.Duration) *HTTPSnapshotEndpoint {
	return &HTTPSnapshotEndpoint{
		url:   netx.JoinURL(baseURL, common.SharedSnapshotPath),
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
}

func (e *HTTPSnapshotEndpoint) Fetch(ctx context.Context) (*models.Snapshot, error) {
	var snap models.Snapshot
	err := netx.DoJSON(ctx, e.http, netx.Request{Method: http.MethodGet, URL: e.url, Token: e.token, Out: &snap})

	var se *netx.StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

func (e *HTTPSnapshotEndpoint) Store(ctx context.Context, snap models.Snapshot) error {
	return netx.DoJSON(ctx, e.http, netx.Request{Method: http.MethodPost, URL: e.url, Token: e.token, In: snap})
}

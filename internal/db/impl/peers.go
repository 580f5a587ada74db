package impl

import (
	"context"
	"fmt"
)

func (d *dbImpl) AddPeer(ctx context.Context, domain string) error {
	if err := d.queries.InsertPeer(ctx, domain); err != nil {
		return fmt.Errorf("%w: peer %s", d.HandleError(err), domain)
	}
	return nil
}

func (d *dbImpl) GetPeers(ctx context.Context) ([]string, error) {
	peers, err := d.queries.ListPeers(ctx)
	if err != nil {
		return nil, d.HandleError(err)
	}
	return peers, nil
}

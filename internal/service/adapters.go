package service

import (
	"context"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/pkg/credstore"
	"github.com/haierkeys/media-share-backup-service/pkg/discovery"
)

// credStoreAdapter 将文件凭证存储适配到领域接口
type credStoreAdapter struct {
	store *credstore.Store
}

// NewCredentialStore 创建领域凭证存储
func NewCredentialStore(store *credstore.Store) domain.CredentialStore {
	return &credStoreAdapter{store: store}
}

func (a *credStoreAdapter) Save(alias string, cred *domain.Credential) error {
	return a.store.Save(alias, &credstore.Credential{
		User:     cred.User,
		Password: cred.Password,
		Domain:   cred.Domain,
	})
}

func (a *credStoreAdapter) Load(alias string) (*domain.Credential, error) {
	cred, err := a.store.Load(alias)
	if err != nil || cred == nil {
		return nil, err
	}
	return &domain.Credential{
		User:     cred.User,
		Password: cred.Password,
		Domain:   cred.Domain,
	}, nil
}

func (a *credStoreAdapter) Delete(alias string) error {
	return a.store.Delete(alias)
}

// scannerAdapter 将子网扫描器适配到领域接口
type scannerAdapter struct {
	scanner *discovery.Scanner
}

// NewServerScanner 创建领域服务器扫描器
func NewServerScanner(scanner *discovery.Scanner) domain.ServerScanner {
	return &scannerAdapter{scanner: scanner}
}

func (a *scannerAdapter) Discover(ctx context.Context) ([]domain.DiscoveredServer, error) {
	servers, err := a.scanner.Discover(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]domain.DiscoveredServer, 0, len(servers))
	for _, srv := range servers {
		results = append(results, domain.DiscoveredServer{Host: srv.Host, IP: srv.IP})
	}
	return results, nil
}

package service

import (
	"context"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/dto"

	"go.uber.org/zap"
)

// DiscoveryService defines the subnet discovery service interface
// 定义子网发现业务服务接口
type DiscoveryService interface {
	Discover(ctx context.Context) ([]*dto.DiscoveredServerDTO, error)
}

type discoveryService struct {
	scanner domain.ServerScanner
	logger  *zap.Logger
}

// NewDiscoveryService creates DiscoveryService instance
// 创建 DiscoveryService 实例
func NewDiscoveryService(scanner domain.ServerScanner, logger *zap.Logger) DiscoveryService {
	return &discoveryService{scanner: scanner, logger: logger}
}

// Discover 扫描本地子网，返回可达的候选服务器
func (s *discoveryService) Discover(ctx context.Context) ([]*dto.DiscoveredServerDTO, error) {
	servers, err := s.scanner.Discover(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.DiscoveredServerDTO, 0, len(servers))
	for _, srv := range servers {
		results = append(results, &dto.DiscoveredServerDTO{Host: srv.Host, IP: srv.IP})
	}
	s.logger.Info("subnet discovery finished", zap.Int("found", len(results)))
	return results, nil
}

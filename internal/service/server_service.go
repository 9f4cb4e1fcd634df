package service

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/dto"
	"github.com/haierkeys/media-share-backup-service/pkg/code"
	"github.com/haierkeys/media-share-backup-service/pkg/logger"
	"github.com/haierkeys/media-share-backup-service/pkg/smbshare"
	"github.com/haierkeys/media-share-backup-service/pkg/timex"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServerService defines the business service interface for SMB servers
// 定义 SMB 服务器业务服务接口
type ServerService interface {
	List(ctx context.Context) ([]*dto.ServerDTO, error)
	Get(ctx context.Context, id int64) (*dto.ServerDTO, error)
	Save(ctx context.Context, req *dto.ServerRequest) (*dto.ServerDTO, error)
	Delete(ctx context.Context, id int64) error

	// Test 执行连接测试并把诊断结果写回服务器记录
	Test(ctx context.Context, id int64) (*dto.ServerTestDTO, error)
}

type serverService struct {
	serverRepo domain.ServerRepository
	credStore  domain.CredentialStore
	dialer     domain.ShareDialer
	logger     *zap.Logger
}

// NewServerService creates ServerService instance
// 创建 ServerService 实例
func NewServerService(
	serverRepo domain.ServerRepository,
	credStore domain.CredentialStore,
	dialer domain.ShareDialer,
	logger *zap.Logger,
) ServerService {
	return &serverService{
		serverRepo: serverRepo,
		credStore:  credStore,
		dialer:     dialer,
		logger:     logger,
	}
}

func (s *serverService) toDTO(ctx context.Context, server *domain.Server) *dto.ServerDTO {
	d := &dto.ServerDTO{
		ID:              server.ID,
		Name:            server.Name,
		Host:            server.Host,
		Port:            server.Port,
		Share:           server.Share,
		BasePath:        server.BasePath,
		Domain:          server.Domain,
		LastTestOk:      server.LastTestOk,
		LastTestLatency: server.LastTestLatency,
		LastTestError:   server.LastTestError,
		LastTestHint:    server.LastTestHint,
		CreatedAt:       timex.Time(server.CreatedAt),
		UpdatedAt:       timex.Time(server.UpdatedAt),
	}
	if server.LastTestTime > 0 {
		d.LastTestTime = timex.Time(time.Unix(server.LastTestTime, 0))
	}
	if cred, err := s.credStore.Load(server.CredentialAlias); err == nil && cred != nil {
		d.User = cred.User
	}
	return d
}

// List 获取全部服务器
func (s *serverService) List(ctx context.Context) ([]*dto.ServerDTO, error) {
	servers, err := s.serverRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*dto.ServerDTO, 0, len(servers))
	for _, server := range servers {
		results = append(results, s.toDTO(ctx, server))
	}
	return results, nil
}

// Get 获取单个服务器
func (s *serverService) Get(ctx context.Context, id int64) (*dto.ServerDTO, error) {
	server, err := s.serverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, code.ErrorServerNotFound
	}
	return s.toDTO(ctx, server), nil
}

// Save 创建或更新服务器
// 凭证加密写入本地存储，数据库只保留别名
func (s *serverService) Save(ctx context.Context, req *dto.ServerRequest) (*dto.ServerDTO, error) {
	port := req.Port
	if port <= 0 {
		port = 445
	}

	server := &domain.Server{
		ID:       req.ID,
		Name:     req.Name,
		Host:     req.Host,
		Port:     port,
		Share:    req.Share,
		BasePath: req.BasePath,
		Domain:   req.Domain,
	}

	if server.ID > 0 {
		existing, err := s.serverRepo.GetByID(ctx, server.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, code.ErrorServerNotFound
		}
		server.CredentialAlias = existing.CredentialAlias

		// 密码留空表示沿用已保存的凭证
		if req.Password != "" || req.User != "" {
			if err := s.saveCredential(server, req); err != nil {
				return nil, err
			}
		}
		if err := s.serverRepo.Update(ctx, server); err != nil {
			return nil, err
		}
		s.logger.Info("server updated",
			zap.Int64(logger.FieldServerID, server.ID),
			zap.String(logger.FieldHost, server.Host))
		return s.Get(ctx, server.ID)
	}

	server.CredentialAlias = uuid.NewString()
	if err := s.saveCredential(server, req); err != nil {
		return nil, err
	}

	created, err := s.serverRepo.Create(ctx, server)
	if err != nil {
		return nil, err
	}
	s.logger.Info("server created",
		zap.Int64(logger.FieldServerID, created.ID),
		zap.String(logger.FieldHost, created.Host))
	return s.toDTO(ctx, created), nil
}

func (s *serverService) saveCredential(server *domain.Server, req *dto.ServerRequest) error {
	return s.credStore.Save(server.CredentialAlias, &domain.Credential{
		User:     req.User,
		Password: req.Password,
		Domain:   req.Domain,
	})
}

// Delete 删除服务器并清理凭证
func (s *serverService) Delete(ctx context.Context, id int64) error {
	server, err := s.serverRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if server == nil {
		return code.ErrorServerNotFound
	}
	if err := s.serverRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.credStore.Delete(server.CredentialAlias); err != nil {
		s.logger.Warn("delete credential failed",
			zap.Int64(logger.FieldServerID, id), zap.Error(err))
	}
	s.logger.Info("server deleted", zap.Int64(logger.FieldServerID, id))
	return nil
}

// Test 执行连接测试并把诊断结果写回服务器记录
// 失败时返回分类和恢复提示，而不是裸错误
func (s *serverService) Test(ctx context.Context, id int64) (*dto.ServerTestDTO, error) {
	server, err := s.serverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, code.ErrorServerNotFound
	}

	cred, err := s.credStore.Load(server.CredentialAlias)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, code.ErrorCredentialsNotFound
	}

	target := domain.ShareTarget{
		Host:     server.Host,
		Port:     server.Port,
		Share:    server.Share,
		Domain:   cred.Domain,
		User:     cred.User,
		Password: cred.Password,
	}

	result := &dto.ServerTestDTO{}
	latency, testErr := s.dialer.TestConnect(ctx, target)
	result.LatencyMs = latency.Milliseconds()

	if testErr != nil {
		category := smbshare.Classify(testErr)
		result.Category = string(category)
		result.Error = testErr.Error()
		result.Hint = category.Hint()
		s.logger.Warn("server connection test failed",
			zap.Int64(logger.FieldServerID, id),
			zap.String(logger.FieldHost, server.Host),
			zap.String(logger.FieldCategory, result.Category),
			zap.Error(testErr))
	} else {
		result.Ok = true
		if shares, err := s.dialer.ListShares(ctx, target); err == nil {
			result.Shares = shares
		}
		s.logger.Info("server connection test ok",
			zap.Int64(logger.FieldServerID, id),
			zap.String(logger.FieldHost, server.Host),
			zap.Duration(logger.FieldDuration, latency))
	}

	server.LastTestTime = time.Now().Unix()
	server.LastTestOk = result.Ok
	server.LastTestLatency = result.LatencyMs
	server.LastTestError = result.Category
	server.LastTestHint = result.Hint
	if err := s.serverRepo.UpdateTestResult(ctx, server); err != nil {
		s.logger.Warn("persist test result failed",
			zap.Int64(logger.FieldServerID, id), zap.Error(err))
	}

	return result, nil
}

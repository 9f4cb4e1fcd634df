package dao

import (
	"context"
	"time"

	"github.com/haierkeys/media-share-backup-service/internal/domain"
	"github.com/haierkeys/media-share-backup-service/internal/model"
	"github.com/haierkeys/media-share-backup-service/pkg/convert"
	"github.com/haierkeys/media-share-backup-service/pkg/timex"

	"gorm.io/gorm"
)

// serverRepository 实现 domain.ServerRepository 接口
type serverRepository struct {
	dao *Dao
}

// NewServerRepository 创建 ServerRepository 实例
func NewServerRepository(dao *Dao) domain.ServerRepository {
	return &serverRepository{dao: dao}
}

func (r *serverRepository) server() *gorm.DB {
	return r.dao.useModel("Server")
}

func (r *serverRepository) toDomain(m *model.Server) *domain.Server {
	if m == nil {
		return nil
	}
	return &domain.Server{
		ID:              m.ID,
		Name:            m.Name,
		Host:            m.Host,
		Port:            m.Port,
		Share:           m.Share,
		BasePath:        m.BasePath,
		Domain:          m.Domain,
		CredentialAlias: m.CredentialAlias,
		LastTestTime:    m.LastTestTime,
		LastTestOk:      m.LastTestOk == 1,
		LastTestLatency: m.LastTestLatency,
		LastTestError:   m.LastTestError,
		LastTestHint:    m.LastTestHint,
		CreatedAt:       time.Time(m.CreatedAt),
		UpdatedAt:       time.Time(m.UpdatedAt),
	}
}

func (r *serverRepository) toModel(s *domain.Server) *model.Server {
	if s == nil {
		return nil
	}
	return &model.Server{
		ID:              s.ID,
		Name:            s.Name,
		Host:            s.Host,
		Port:            s.Port,
		Share:           s.Share,
		BasePath:        s.BasePath,
		Domain:          s.Domain,
		CredentialAlias: s.CredentialAlias,
		LastTestTime:    s.LastTestTime,
		LastTestOk:      convert.Bool2Int(s.LastTestOk),
		LastTestLatency: s.LastTestLatency,
		LastTestError:   s.LastTestError,
		LastTestHint:    s.LastTestHint,
		CreatedAt:       timex.Time(s.CreatedAt),
		UpdatedAt:       timex.Time(s.UpdatedAt),
	}
}

// GetByID 根据ID获取服务器
func (r *serverRepository) GetByID(ctx context.Context, id int64) (*domain.Server, error) {
	var m model.Server
	err := r.server().WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, 0).
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.toDomain(&m), nil
}

// List 获取全部未删除的服务器
func (r *serverRepository) List(ctx context.Context) ([]*domain.Server, error) {
	var ms []*model.Server
	err := r.server().WithContext(ctx).
		Where("is_deleted = ?", 0).
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, err
	}
	servers := make([]*domain.Server, 0, len(ms))
	for _, m := range ms {
		servers = append(servers, r.toDomain(m))
	}
	return servers, nil
}

// Create 创建服务器
func (r *serverRepository) Create(ctx context.Context, server *domain.Server) (*domain.Server, error) {
	m := r.toModel(server)
	m.ID = 0
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()
	if err := r.server().WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return r.toDomain(m), nil
}

// Update 更新服务器
func (r *serverRepository) Update(ctx context.Context, server *domain.Server) error {
	m := r.toModel(server)
	m.UpdatedAt = timex.Now()
	return r.server().WithContext(ctx).
		Where("id = ? AND is_deleted = ?", m.ID, 0).
		Select("name", "host", "port", "share", "base_path", "domain",
			"credential_alias", "updated_at").
		Updates(m).Error
}

// UpdateTestResult 记录最近一次连接测试的诊断信息
func (r *serverRepository) UpdateTestResult(ctx context.Context, server *domain.Server) error {
	m := r.toModel(server)
	return r.server().WithContext(ctx).
		Where("id = ?", m.ID).
		Select("last_test_time", "last_test_ok", "last_test_latency",
			"last_test_error", "last_test_hint").
		Updates(m).Error
}

// Delete 删除服务器（软删除）
func (r *serverRepository) Delete(ctx context.Context, id int64) error {
	return r.server().WithContext(ctx).
		Model(&model.Server{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": 1,
			"updated_at": timex.Now(),
		}).Error
}
